package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   API base URL
//	-d string   path of the local token database
//	-l string   log level (debug, info, warn, error)
//	-t int      request timeout in seconds, 0 for none
//
// Only these flags are read; os.Args is filtered with flagx.FilterArgs.
func parseFlags(cfg *Config) error {
	return parseArgs(cfg, os.Args[1:], io.Discard)
}

func parseArgs(cfg *Config, args []string, output io.Writer) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-t"})

	fs := flag.NewFlagSet("scholarscout", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.TokenDBPath, "d", cfg.TokenDBPath, "local token database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout in seconds (0 = none)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *timeout < 0 {
		return fmt.Errorf("parse flags: timeout must not be negative")
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
