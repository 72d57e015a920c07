package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bankadmin/internal/flagx"
	"github.com/dmitrijs2005/bankadmin/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept "15m" or
// integer nanoseconds. Absent fields keep their current values.
type JsonConfig struct {
	ListenAddr                  *string         `json:"listen_addr"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	AdminEmail                  *string         `json:"admin_email"`
	AdminPassword               *string         `json:"admin_password"`
	Seed                        *bool           `json:"seed"`
	LogLevel                    *string         `json:"log_level"`
}

func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&config.ListenAddr, c.ListenAddr)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.AdminEmail, c.AdminEmail)
	setIf(&config.AdminPassword, c.AdminPassword)
	setIf(&config.Seed, c.Seed)
	setIf(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
