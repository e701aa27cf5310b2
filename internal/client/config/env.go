package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "AUTHCLI_"

// dotenvFiles are loaded into the process environment when they exist.
// Variables already set in the environment win over the files.
var dotenvFiles = []string{".env"}

// parseEnv overlays Config with AUTHCLI_* environment variables:
//
//	AUTHCLI_SERVER_BASE_URL         string
//	AUTHCLI_TOKEN_DB_PATH           string
//	AUTHCLI_EXPIRY_THRESHOLD        duration, e.g. "5m"
//	AUTHCLI_REFRESH_CHECK_INTERVAL  duration, e.g. "1m"
//	AUTHCLI_LOG_LEVEL               string
func parseEnv(cfg *Config) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "SERVER_BASE_URL"); ok {
		cfg.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "TOKEN_DB_PATH"); ok {
		cfg.TokenDBPath = v
	}
	if err := envDuration(envPrefix+"EXPIRY_THRESHOLD", &cfg.ExpiryThreshold); err != nil {
		return err
	}
	if err := envDuration(envPrefix+"REFRESH_CHECK_INTERVAL", &cfg.RefreshCheckInterval); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
