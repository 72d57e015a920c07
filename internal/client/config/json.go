package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bankadmin/internal/flagx"
	"github.com/dmitrijs2005/bankadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// keep their current values.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	SessionDBPath  *string         `json:"session_db_path"`
	ReloadDelay    *timex.Duration `json:"reload_delay"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	CacheSize      *int            `json:"cache_size"`
	LogLevel       *string         `json:"log_level"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.ReloadDelay != nil {
		cfg.ReloadDelay = jc.ReloadDelay.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CacheSize != nil {
		cfg.CacheSize = *jc.CacheSize
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
