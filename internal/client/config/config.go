package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/orbiter/internal/flagx"
)

// Config holds runtime settings for the Orbiter CLI.
type Config struct {
	ServerURL      string        `json:"server_url" yaml:"server_url" env:"ORBITER_SERVER_URL"`
	APIPrefix      string        `json:"api_prefix" yaml:"api_prefix" env:"ORBITER_API_PREFIX"`
	DBPath         string        `json:"db_path" yaml:"db_path" env:"ORBITER_DB_PATH"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" env:"ORBITER_REQUEST_TIMEOUT"`
	LogLevel       string        `json:"log_level" yaml:"log_level" env:"ORBITER_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.APIPrefix = ""
	c.DBPath = "orbiter.db"
	c.RequestTimeout = 5 * time.Second
	c.LogLevel = "warn"
}

// BaseURL returns ServerURL joined with APIPrefix, without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.ServerURL, "/") + c.APIPrefix
}

// Validate checks the settings and normalizes APIPrefix to "" or "/segment".
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.ServerURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("server url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("server url %q: scheme must be http or https", c.ServerURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("server url %q: missing host", c.ServerURL))
	}

	if c.DBPath == "" {
		errs = append(errs, errors.New("db path must be set"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}

	c.APIPrefix = strings.Trim(strings.TrimSpace(c.APIPrefix), "/")
	if c.APIPrefix != "" {
		c.APIPrefix = "/" + c.APIPrefix
	}

	return errors.Join(errs...)
}

// LoadConfig constructs a Config: defaults, then .env, the config file,
// the environment and finally command-line flags. Later sources take
// precedence over earlier ones.
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
