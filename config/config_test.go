package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Zero(t, cfg.Timeout, "the gateway imposes no deadline by default")
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PHOTOSHARE_BASE_URL", "https://photos.example/api")
	t.Setenv("PHOTOSHARE_DB", "/tmp/state.db")
	t.Setenv("PHOTOSHARE_LOG_LEVEL", "debug")
	t.Setenv("PHOTOSHARE_TIMEOUT", "30s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://photos.example/api", cfg.BaseURL)
	assert.Equal(t, "/tmp/state.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
