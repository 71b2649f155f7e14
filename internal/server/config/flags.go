package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/dmitrijs2005/orbiter/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address, host:port (e.g. ":8080")
//	-d string        database URL
//	-s string        JWT HMAC secret
//	-l string        log level
//	-prefix string   API path prefix (e.g. "/api")
//
// args is filtered with flagx.FilterArgs first, so flags owned by other
// components (such as -c) are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-l", "-prefix"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addr := fs.String("a", "", "address and port to run server")
	fs.StringVar(&config.DatabaseURL, "d", config.DatabaseURL, "database URL")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.APIPrefix, "prefix", config.APIPrefix, "API path prefix")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *addr != "" {
		host, port, err := net.SplitHostPort(*addr)
		if err != nil {
			return fmt.Errorf("flag -a: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("flag -a: bad port %q", port)
		}
		config.Host = host
		config.Port = p
	}

	return nil
}
