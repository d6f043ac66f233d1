package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIURL          = "ROSENBLUM_API_URL"
	EnvRefreshInterval = "ROSENBLUM_REFRESH_INTERVAL"
	EnvCookieDB        = "ROSENBLUM_COOKIE_DB"
	EnvLogLevel        = "ROSENBLUM_LOG_LEVEL"
	EnvLogFormat       = "ROSENBLUM_LOG_FORMAT"
	EnvPassphrase      = "ROSENBLUM_PASSPHRASE"
	EnvRequestTimeout  = "ROSENBLUM_REQUEST_TIMEOUT"
	EnvAgencyUserID    = "ROSENBLUM_AGENCY_USER_ID"
)

type lookupFunc func(key string) (string, bool)

// envLookup reads the process environment first and falls back to the
// variables of dotenvPath. A missing or unreadable file is ignored.
func envLookup(dotenvPath string) lookupFunc {
	file, err := godotenv.Read(dotenvPath)
	if err != nil {
		file = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
}

// parseEnv overlays cfg with the variables that are set.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(EnvAPIURL, &cfg.APIURL)
	str(EnvCookieDB, &cfg.CookieDB)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvLogFormat, &cfg.LogFormat)
	str(EnvPassphrase, &cfg.Passphrase)

	if err := dur(EnvRefreshInterval, &cfg.RefreshInterval); err != nil {
		return err
	}
	if err := dur(EnvRequestTimeout, &cfg.RequestTimeout); err != nil {
		return err
	}

	if v, ok := lookup(EnvAgencyUserID); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAgencyUserID, err)
		}
		cfg.AgencyUserID = id
	}
	return nil
}
