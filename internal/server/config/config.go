// Package config handles configuration for the server component:
// defaults, an optional config file, the environment (including a .env
// file) and command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/orbiter/internal/cryptox"
	"github.com/dmitrijs2005/orbiter/internal/flagx"
)

// Config holds runtime settings for the Orbiter server.
//
// Fields:
//   - Host, Port: HTTP bind address.
//   - DatabaseURL: user store; the scheme selects the backend
//     (postgres://, sqlite://, file:, memory://).
//   - JWTSecret: HMAC secret for signing tokens (HS256). Required.
//   - APIPrefix: path prefix for the API routes, e.g. "/api". Empty by default.
//   - LogLevel, LogFormat: zerolog level and output format (json or console).
//   - PasswordAlgorithm, BcryptCost: password hashing settings.
//   - ShutdownTimeout: how long in-flight requests get on shutdown.
type Config struct {
	Host              string        `json:"host" yaml:"host" env:"HOST"`
	Port              int           `json:"port" yaml:"port" env:"PORT"`
	DatabaseURL       string        `json:"database_url" yaml:"database_url" env:"DATABASE_URL"`
	JWTSecret         string        `json:"jwt_secret" yaml:"jwt_secret" env:"JWT_SECRET"`
	APIPrefix         string        `json:"api_prefix" yaml:"api_prefix" env:"API_PREFIX"`
	LogLevel          string        `json:"log_level" yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat         string        `json:"log_format" yaml:"log_format" env:"LOG_FORMAT"`
	PasswordAlgorithm string        `json:"password_algorithm" yaml:"password_algorithm" env:"PASSWORD_ALGORITHM"`
	BcryptCost        int           `json:"bcrypt_cost" yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates Config with development defaults. JWTSecret has
// no default and must be supplied.
func (c *Config) LoadDefaults() {
	c.Host = "0.0.0.0"
	c.Port = 8080
	c.DatabaseURL = "memory://"
	c.APIPrefix = ""
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.PasswordAlgorithm = cryptox.AlgorithmBcrypt
	c.BcryptCost = 10
	c.ShutdownTimeout = 10 * time.Second
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// HasherConfig returns the password hashing settings.
func (c *Config) HasherConfig() cryptox.HasherConfig {
	return cryptox.HasherConfig{
		Algorithm:  c.PasswordAlgorithm,
		BcryptCost: c.BcryptCost,
	}
}

// Validate rejects settings the server cannot start with and normalizes
// APIPrefix to "" or "/segment" without a trailing slash.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must be set"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if _, err := cryptox.NewHasher(cryptox.HasherConfig{Algorithm: c.PasswordAlgorithm, BcryptCost: c.BcryptCost}); err != nil {
		errs = append(errs, err)
	}

	c.APIPrefix = normalizePrefix(c.APIPrefix)

	return errors.Join(errs...)
}

func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// LoadConfig builds a Config by applying defaults, then the config file
// named by -c/-config (if any), then the environment and .env, and finally
// command-line flags. The result is validated.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := parseFile(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
