package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "data/data.json", cfg.DataFile)
	assert.Equal(t, int64(2<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 720*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 6, cfg.MinPasswordLength)
	assert.False(t, cfg.SessionSecretIsSet)
	assert.Len(t, cfg.SessionSecret, 64)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("REORDER_KEEP_MISSING", "true")
	t.Setenv("UPLOAD_URL_PREFIX", "/media/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example/, https://b.example")
	t.Setenv("MIN_PASSWORD_LENGTH", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.True(t, cfg.SessionSecretIsSet)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.ReorderKeepMissing)
	assert.Equal(t, "/media", cfg.UploadURLPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 6, cfg.MinPasswordLength)
}
