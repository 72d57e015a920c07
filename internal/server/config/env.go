package config

import "os"

const (
	EnvListenAddr    = "ADMIN_LISTEN_ADDR"
	EnvSecretKey     = "ADMIN_SECRET_KEY"
	EnvAdminPassword = "ADMIN_PASSWORD"
)

func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvListenAddr); ok {
		config.ListenAddr = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvAdminPassword); ok {
		config.AdminPassword = v
	}
}
