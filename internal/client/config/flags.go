package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authclient/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend (default from Config)
//	-d string   path of the token database (default from Config)
//	-t int      expiry threshold in minutes (only applied when given)
//	-i int      refresh check interval in seconds (only applied when given)
//	-l string   log level (default from Config)
//
// Only these flags are read from os.Args; the rest are left to other loaders.
func parseFlags(cfg *Config) error {
	err := flagx.ParseSubset("main", os.Args[1:], []string{"-a", "-d", "-t", "-i", "-l"}, func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the authentication server")
		fs.StringVar(&cfg.TokenDBPath, "d", cfg.TokenDBPath, "path to the token database")
		fs.Func("t", "expiry threshold (in minutes)", func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("negative expiry threshold %d", n)
			}
			cfg.ExpiryThreshold = time.Duration(n) * time.Minute
			return nil
		})
		fs.Func("i", "refresh check interval (in seconds)", func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			if n <= 0 {
				return fmt.Errorf("refresh check interval must be positive, got %d", n)
			}
			cfg.RefreshCheckInterval = time.Duration(n) * time.Second
			return nil
		})
		fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	})
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
