package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("VOTE_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 5*time.Second, cfg.VoteTimeout)
	assert.Equal(t, "587", cfg.Mail.Port)
	assert.Equal(t, "https://api.cloudinary.com/v1_1", cfg.Cloudinary.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("VOTE_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_RPS", "1.5")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, 2*time.Second, cfg.VoteTimeout)
	assert.Equal(t, 1.5, cfg.RateLimitRPS)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
}

func TestReleaseNeedsSessionSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{SessionSecret: "x", VoteTimeout: time.Second, RateLimitRPS: 1, RateLimitBurst: 1}
	assert.NoError(t, cfg.Validate())

	cfg.VoteTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg.VoteTimeout = time.Second
	cfg.RateLimitBurst = 0
	assert.Error(t, cfg.Validate())
}
