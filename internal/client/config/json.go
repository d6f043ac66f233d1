package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/flagx"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent or
// zero fields leave the Config untouched.
type JsonConfig struct {
	APIURL          string         `json:"api_url"`
	RefreshInterval timex.Duration `json:"refresh_interval"`
	CookieDB        string         `json:"cookie_db"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	Passphrase      string         `json:"passphrase"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	AgencyUserID    int64          `json:"agency_user_id"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Without either flag it does nothing.
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

	if jc.APIURL != "" {
		cfg.APIURL = jc.APIURL
	}
	if jc.RefreshInterval.Duration > 0 {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	if jc.CookieDB != "" {
		cfg.CookieDB = jc.CookieDB
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.Passphrase != "" {
		cfg.Passphrase = jc.Passphrase
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AgencyUserID > 0 {
		cfg.AgencyUserID = jc.AgencyUserID
	}
	return nil
}
