package config

import (
	"os"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
)

// InMemoryCookieDB selects the in-memory cookie repository.
const InMemoryCookieDB = ":memory:"

// Config holds runtime settings for the terminal client.
//
// Units: RefreshInterval and RequestTimeout are time.Duration values. A zero
// RequestTimeout leaves deadlines to the HTTP client defaults.
type Config struct {
	APIURL          string
	RefreshInterval time.Duration
	CookieDB        string
	LogLevel        string
	LogFormat       string
	Passphrase      string
	RequestTimeout  time.Duration
	AgencyUserID    int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8000/"
	c.RefreshInterval = common.DefaultRefreshInterval
	c.CookieDB = "cookies.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.AgencyUserID = 1
}

// Load builds a Config from defaults, the environment, the JSON file and
// the flags found in args. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, envLookup(".env")); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on invalid configuration.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
