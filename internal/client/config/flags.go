package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/orbiter/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Flags owned by other components are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-prefix", "-db", "-timeout"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.APIPrefix, "prefix", cfg.APIPrefix, "API path prefix")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "local session cache")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
