package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/bankadmin/internal/flagx"
)

// parseFlags overlays command-line flags:
//
//	-a string     listen address (e.g., ":8080")
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g., "15m")
//	-e string     administrator email
//	-p string     administrator password
//	-seed bool    load demo data
//	-l string     log level
//
// Unknown flags are filtered out first, so the -c config flag passes through.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, "a", "s", "t", "e", "p", "seed", "l")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.AdminEmail, "e", config.AdminEmail, "administrator email")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "administrator password")
	fs.BoolVar(&config.Seed, "seed", config.Seed, "load demo data")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
