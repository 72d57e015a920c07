package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/bankadmin/internal/flagx"
)

// parseFlags overlays the flags this package knows about. Other arguments,
// including -c, are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, "u", "d", "r", "t", "cache", "l")

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "base URL of the admin API")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database file (empty: memory only)")
	fs.DurationVar(&cfg.ReloadDelay, "r", cfg.ReloadDelay, "delay before re-login after session expiry")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.IntVar(&cfg.CacheSize, "cache", cfg.CacheSize, "idle query cache size")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
