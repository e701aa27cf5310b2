package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authclient/internal/flagx"
	"github.com/dmitrijs2005/authclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Durations are pointers so an
// explicit zero is told apart from a missing field.
type JsonConfig struct {
	ServerBaseURL        string          `json:"server_base_url"`
	TokenDBPath          string          `json:"token_db_path"`
	ExpiryThreshold      *timex.Duration `json:"expiry_threshold"`
	RefreshCheckInterval *timex.Duration `json:"refresh_check_interval"`
	LogLevel             string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing happens. Fields missing from
// the file keep their current value.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config %s: %w", jsonConfigFile, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.TokenDBPath != "" {
		cfg.TokenDBPath = jc.TokenDBPath
	}
	if jc.ExpiryThreshold != nil {
		cfg.ExpiryThreshold = jc.ExpiryThreshold.Duration
	}
	if jc.RefreshCheckInterval != nil {
		cfg.RefreshCheckInterval = jc.RefreshCheckInterval.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
