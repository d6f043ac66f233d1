package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags handled here are kept (flagx.FilterArgs), so -c and any
// flags of other components do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-r", "-d", "-l", "-k"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "backend base URL")
	refresh := fs.Int("r", int(cfg.RefreshInterval.Seconds()), "token refresh interval (in seconds)")
	fs.StringVar(&cfg.CookieDB, "d", cfg.CookieDB, "cookie database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Passphrase, "k", cfg.Passphrase, "cookie sealing passphrase")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *refresh <= 0 {
		return fmt.Errorf("parse flags: refresh interval must be positive, got %d", *refresh)
	}
	cfg.RefreshInterval = time.Duration(*refresh) * time.Second
	return nil
}
