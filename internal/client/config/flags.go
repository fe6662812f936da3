package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-o", "-s", "-l"}

// parseFlags populates selected Config fields from command-line flags.
// os.Args is filtered through flagx.FilterArgs so flags meant for other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the movie API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.OAuthCallbackAddr, "o", cfg.OAuthCallbackAddr, "OAuth callback listen address")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "local store backend (sqlite|redis)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
