package app

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/museum-survey/config"
)

// App bundles what request handlers need.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
