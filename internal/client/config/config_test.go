package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, "", c.APIPrefix)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, "http://127.0.0.1:8080", c.BaseURL())
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://10.0.0.1:9090", "-prefix", "/api", "-db", "/tmp/x.db", "-timeout", "2s"},
			expected: &Config{
				ServerURL: "http://10.0.0.1:9090", APIPrefix: "/api", DBPath: "/tmp/x.db", RequestTimeout: 2 * time.Second,
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-a", "http://h:1", "-x"},
			expected: &Config{ServerURL: "http://h:1"},
		},
		{name: "bad duration", args: []string{"-timeout", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		prefix  string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "prefix normalized", mutate: func(c *Config) { c.APIPrefix = "api/" }, prefix: "/api"},
		{name: "bad scheme", mutate: func(c *Config) { c.ServerURL = "ftp://h" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.ServerURL = "http://" }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.DBPath = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, c.APIPrefix)
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server_url: http://file:1\napi_prefix: /v1\nrequest_timeout: 3s\n"), 0o600))

	t.Setenv("ORBITER_API_PREFIX", "/env")

	cfg, err := LoadConfig([]string{"-c", file, "-db", "cli.db"})
	require.NoError(t, err)

	assert.Equal(t, "http://file:1", cfg.ServerURL)
	assert.Equal(t, "/env", cfg.APIPrefix)
	assert.Equal(t, "cli.db", cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://file:1/env", cfg.BaseURL())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "nope.json")})
	assert.Error(t, err)
}
