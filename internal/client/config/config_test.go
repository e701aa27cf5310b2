package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.ServerBaseURL)
	assert.Equal(t, "auth.db", c.TokenDBPath)
	assert.Equal(t, 5*time.Minute, c.ExpiryThreshold)
	assert.Equal(t, time.Minute, c.RefreshCheckInterval)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	withDotenv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url":  "http://json.example:8080",
		"token_db_path":    "json.db",
		"expiry_threshold": "10m",
		"log_level":        "warn",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag.example:9090", "-l", "debug"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example:9090", cfg.ServerBaseURL)
	assert.Equal(t, "json.db", cfg.TokenDBPath)
	assert.Equal(t, 10*time.Minute, cfg.ExpiryThreshold)
	assert.Equal(t, time.Minute, cfg.RefreshCheckInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "/definitely/missing.json"}
	_, err := LoadConfig()
	assert.Error(t, err)

	os.Args = []string{"testbin", "-i", "abc"}
	_, err = LoadConfig()
	assert.Error(t, err)
}
