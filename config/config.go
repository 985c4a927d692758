package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBUrl         string
	TokenSecret   string
	TokenTTL      time.Duration
	AdminUser     string
	AdminPassword string
	LogLevel      string
	Debug         bool
}

// Client configures the survey API client used by the visitor app.
type Client struct {
	BaseURL string
	// Timeout applies to every HTTP request.
	Timeout time.Duration
	// AnswerTimeout bounds each answer submission; 0 disables it.
	AnswerTimeout time.Duration
	// MaxConcurrent caps parallel answer submissions; 0 means no cap.
	MaxConcurrent int
}

// LoadEnv reads a .env file from the working directory, if present.
// Variables already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// ParseFlags reads the server configuration. Every flag defaults to its
// QSURVEY_* environment variable.
func ParseFlags(args []string) (cfg Config, err error) {
	fs := flag.NewFlagSet("museum-survey", flag.ContinueOnError)

	var host string
	fs.StringVar(&host, "host", env("QSURVEY_HOST", "0.0.0.0"), "listen host name")
	var port uint
	fs.UintVar(&port, "port", uint(envInt("QSURVEY_PORT", 80)), "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", env("QSURVEY_DB_URL", "qsurvey.sqlite"), "path to SQLite3 DB file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", env("QSURVEY_TOKEN_SECRET", ""), "secret key for token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", uint(envInt("QSURVEY_TOKEN_TTL", 120)), "token TTL in seconds")
	fs.StringVar(&cfg.AdminUser, "admin-user", env("QSURVEY_ADMIN_USER", ""), "create or update this admin user at startup")
	fs.StringVar(&cfg.AdminPassword, "admin-password", env("QSURVEY_ADMIN_PASSWORD", ""), "password for -admin-user")
	fs.StringVar(&cfg.LogLevel, "log-level", env("QSURVEY_LOG_LEVEL", "info"), "log level: trace, debug, info, warn, error")
	fs.BoolVar(&cfg.Debug, "debug", env("QSURVEY_DEBUG", "") == "true", "log at DEBUG level, overrides -log-level")
	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	switch {
	case cfg.TokenSecret == "":
		err = errors.New("missing parameter -token-secret")
	case cfg.AdminUser != "" && cfg.AdminPassword == "":
		err = errors.New("missing parameter -admin-password")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

// ClientFromEnv reads the client configuration from QSURVEY_API_* variables.
func ClientFromEnv() Client {
	return Client{
		BaseURL:       env("QSURVEY_API_URL", "http://localhost/api/"),
		Timeout:       time.Duration(envInt("QSURVEY_API_TIMEOUT", 30)) * time.Second,
		AnswerTimeout: time.Duration(envInt("QSURVEY_API_ANSWER_TIMEOUT", 0)) * time.Second,
		MaxConcurrent: envInt("QSURVEY_API_MAX_CONCURRENT", 0),
	}
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}
