// Package config loads runtime configuration for the terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with a .env file in the working directory
//     filling in variables that are not set (see parseEnv).
//  3. Optional JSON file (see parseJson) selected with -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-r int      token refresh interval (seconds)
//	-d string   cookie database file, ":memory:" keeps cookies in memory
//	-l string   log level (debug, info, warn, error)
//	-k string   passphrase sealing the stored cookies
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "240s" or
// integer nanoseconds:
//
//	{
//	  "api_url": "http://127.0.0.1:8000/",
//	  "refresh_interval": "240s",
//	  "cookie_db": "cookies.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "request_timeout": "30s",
//	  "agency_user_id": 1
//	}
package config
