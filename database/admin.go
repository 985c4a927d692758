package database

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the user, or resets its password when it exists.
func EnsureAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO user (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		username,
		hash,
	)
	return err
}
