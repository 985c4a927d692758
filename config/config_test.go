package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-host", "127.0.0.1",
		"-port", "8080",
		"-db-url", "/tmp/q.sqlite",
		"-token-secret", "s3cret",
		"-token-ttl", "60",
	})

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, "/tmp/q.sqlite", cfg.DBUrl)
	assert.Equal(t, "s3cret", cfg.TokenSecret)
	assert.Equal(t, time.Minute, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Url())
}

func TestParseFlagsFromEnv(t *testing.T) {
	t.Setenv("QSURVEY_PORT", "9000")
	t.Setenv("QSURVEY_TOKEN_SECRET", "from-env")
	t.Setenv("QSURVEY_DEBUG", "true")

	cfg, err := ParseFlags(nil)

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.Equal(t, "from-env", cfg.TokenSecret)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://localhost:9000", cfg.Url())
}

func TestParseFlagsErrors(t *testing.T) {
	t.Setenv("QSURVEY_TOKEN_SECRET", "")

	_, err := ParseFlags(nil)
	assert.EqualError(t, err, "missing parameter -token-secret")

	_, err = ParseFlags([]string{"-token-secret", "x", "-admin-user", "admin"})
	assert.EqualError(t, err, "missing parameter -admin-password")

	_, err = ParseFlags([]string{"-port", "not-a-port"})
	assert.Error(t, err)
}

func TestClientFromEnv(t *testing.T) {
	t.Setenv("QSURVEY_API_URL", "https://museum.example/api/")
	t.Setenv("QSURVEY_API_ANSWER_TIMEOUT", "5")
	t.Setenv("QSURVEY_API_MAX_CONCURRENT", "4")

	assert.Equal(t, Client{
		BaseURL:       "https://museum.example/api/",
		Timeout:       30 * time.Second,
		AnswerTimeout: 5 * time.Second,
		MaxConcurrent: 4,
	}, ClientFromEnv())
}
