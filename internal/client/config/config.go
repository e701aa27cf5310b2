package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/client"
)

// Config holds runtime settings for the auth CLI.
//
// Fields:
//   - ServerBaseURL: base address of the authentication backend.
//   - TokenDBPath: SQLite file holding the stored token.
//   - ExpiryThreshold: window in which a token counts as expiring soon.
//   - RefreshCheckInterval: how often the background refresher runs.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL        string
	TokenDBPath          string
	ExpiryThreshold      time.Duration
	RefreshCheckInterval time.Duration
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = client.DefaultBaseURL
	c.TokenDBPath = "auth.db"
	c.ExpiryThreshold = client.DefaultExpiryThreshold
	c.RefreshCheckInterval = time.Minute
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ExpiryThreshold < 0 {
		return fmt.Errorf("invalid config: negative expiry threshold %s", c.ExpiryThreshold)
	}
	if c.RefreshCheckInterval <= 0 {
		return fmt.Errorf("invalid config: refresh check interval must be positive, got %s", c.RefreshCheckInterval)
	}
	return nil
}
