package config

import "os"

const (
	EnvAPIBaseURL    = "ADMIN_API_URL"
	EnvSessionDBPath = "ADMIN_SESSION_DB"
)

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvSessionDBPath); ok {
		cfg.SessionDBPath = v
	}
}
