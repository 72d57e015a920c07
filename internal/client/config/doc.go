// Package config loads runtime configuration for the admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment: ADMIN_API_URL, ADMIN_SESSION_DB.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-u string     base URL of the admin API (e.g. "http://127.0.0.1:8080/api")
//	-d string     SQLite file holding the session; empty keeps it in memory
//	-r duration   delay before returning to the login prompt after a 401
//	-t duration   per-request timeout
//	-cache int    number of idle query results kept in memory
//	-l string     log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api",
//	  "session_db_path": "bankadmin.db",
//	  "reload_delay": "3s",
//	  "request_timeout": "15s",
//	  "cache_size": 256,
//	  "log_level": "warn"
//	}
package config
