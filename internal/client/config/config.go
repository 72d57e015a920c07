package config

import "time"

// Config holds runtime settings for the admin CLI.
//
// Fields:
//   - APIBaseURL: prefix every endpoint is resolved against.
//   - SessionDBPath: SQLite file persisting token and user between runs.
//   - ReloadDelay: pause between "Session Expired" and the login prompt.
//   - RequestTimeout: upper bound on a single HTTP exchange.
//   - CacheSize: idle cache entries kept before eviction.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	ReloadDelay    time.Duration
	RequestTimeout time.Duration
	CacheSize      int
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.SessionDBPath = "bankadmin.db"
	c.ReloadDelay = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.CacheSize = 256
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the optional JSON file, then the
// environment and finally command-line flags. Later sources take precedence.
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
