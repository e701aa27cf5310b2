// Package config loads runtime configuration for the auth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. AUTHCLI_* environment variables, including those from a .env file in
//     the working directory (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the authentication backend
//	-d string   path of the SQLite token database
//	-t int      expiry threshold (minutes)
//	-i int      refresh check interval (seconds)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5m" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "token_db_path": "auth.db",
//	  "expiry_threshold": "5m",
//	  "refresh_check_interval": "1m",
//	  "log_level": "info"
//	}
package config
