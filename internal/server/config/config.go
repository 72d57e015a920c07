// Package config handles configuration for the development backend,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - ListenAddr: bind address of the REST endpoint.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of issued access tokens.
//   - AdminEmail / AdminPassword: the single administrator account.
//   - Seed: populate the store with demo users, banks, accounts and withdrawals.
type Config struct {
	ListenAddr                  string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	AdminEmail                  string
	AdminPassword               string
	Seed                        bool
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.AdminEmail = "admin@example.com"
	c.AdminPassword = "secret1"
	c.Seed = true
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the optional JSON file named by -c or
// -config, then the environment and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
