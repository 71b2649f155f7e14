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

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "0.0.0.0", c.Host)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "memory://", c.DatabaseURL)
	assert.Empty(t, c.JWTSecret)
	assert.Empty(t, c.APIPrefix)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "bcrypt", c.PasswordAlgorithm)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "0.0.0.0:8080", c.Addr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(c *Config) { c.JWTSecret = "k" }, ""},
		{"missing secret", func(c *Config) {}, "JWT_SECRET"},
		{"blank secret", func(c *Config) { c.JWTSecret = "   " }, "JWT_SECRET"},
		{"bad port", func(c *Config) { c.JWTSecret = "k"; c.Port = 70000 }, "port"},
		{"no database", func(c *Config) { c.JWTSecret = "k"; c.DatabaseURL = "" }, "DATABASE_URL"},
		{"bad cost", func(c *Config) { c.JWTSecret = "k"; c.BcryptCost = 99 }, "bcrypt cost"},
		{"bad algorithm", func(c *Config) { c.JWTSecret = "k"; c.PasswordAlgorithm = "md5" }, "unsupported"},
		{"zero shutdown", func(c *Config) { c.JWTSecret = "k"; c.ShutdownTimeout = 0 }, "shutdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"":        "",
		"/":       "",
		"api":     "/api",
		"/api/":   "/api",
		" /v1 ":   "/v1",
		"/api/v1": "/api/v1",
	} {
		c := defaults()
		c.JWTSecret = "k"
		c.APIPrefix = in
		require.NoError(t, c.Validate())
		assert.Equal(t, want, c.APIPrefix, "prefix %q", in)
	}
}

func TestHasherConfig(t *testing.T) {
	c := defaults()
	c.PasswordAlgorithm = "argon2id"
	c.BcryptCost = 12

	hc := c.HasherConfig()
	assert.Equal(t, "argon2id", hc.Algorithm)
	assert.Equal(t, 12, hc.BcryptCost)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-d", "sqlite://x.db", "-s", "secret", "-l", "debug", "-prefix", "/api"},
			want: func(c *Config) {
				c.Host, c.Port = "127.0.0.1", 9090
				c.DatabaseURL = "sqlite://x.db"
				c.JWTSecret = "secret"
				c.LogLevel = "debug"
				c.APIPrefix = "/api"
			},
		},
		{
			name: "port only address",
			args: []string{"-a", ":9999"},
			want: func(c *Config) { c.Host, c.Port = "", 9999 },
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "cfg.yaml", "-x", "-s", "k"},
			want: func(c *Config) { c.JWTSecret = "k" },
		},
		{name: "bad address", args: []string{"-a", "nohostport"}, wantErr: true},
		{name: "bad port", args: []string{"-a", "host:abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(got, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestParseFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		p := writeFile(t, "cfg.yaml", `
host: 127.0.0.1
port: 9000
database_url: sqlite://orbiter.db
jwt_secret: from-file
api_prefix: /api
shutdown_timeout: 3s
`)
		c := defaults()
		require.NoError(t, parseFile(c, p))

		assert.Equal(t, "127.0.0.1", c.Host)
		assert.Equal(t, 9000, c.Port)
		assert.Equal(t, "sqlite://orbiter.db", c.DatabaseURL)
		assert.Equal(t, "from-file", c.JWTSecret)
		assert.Equal(t, "/api", c.APIPrefix)
		assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
		// untouched keys keep their defaults
		assert.Equal(t, "info", c.LogLevel)
	})

	t.Run("json", func(t *testing.T) {
		p := writeFile(t, "cfg.json", `{"port": 9100, "log_format": "console"}`)
		c := defaults()
		require.NoError(t, parseFile(c, p))

		assert.Equal(t, 9100, c.Port)
		assert.Equal(t, "console", c.LogFormat)
		assert.Equal(t, "memory://", c.DatabaseURL)
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseFile(c, ""))
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseFile(defaults(), filepath.Join(t.TempDir(), "nope.yaml")))
	})

	t.Run("invalid json", func(t *testing.T) {
		p := writeFile(t, "bad.json", `{ this is not valid json`)
		assert.Error(t, parseFile(defaults(), p))
	})
}

func TestParseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "7000")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("PASSWORD_ALGORITHM", "argon2id")

	c := defaults()
	require.NoError(t, parseEnv(c))

	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 7000, c.Port)
	assert.Equal(t, 2*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "argon2id", c.PasswordAlgorithm)
	assert.Equal(t, "memory://", c.DatabaseURL)
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	assert.Error(t, parseEnv(defaults()))
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("exports unset variables only", func(t *testing.T) {
		t.Setenv("API_PREFIX", "/already-set")
		t.Setenv("LOG_LEVEL", "")
		os.Unsetenv("LOG_LEVEL")

		p := writeFile(t, ".env", "API_PREFIX=/from-dotenv\nLOG_LEVEL=debug\n")
		require.NoError(t, loadDotEnv(p))
		t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

		assert.Equal(t, "/already-set", os.Getenv("API_PREFIX"))
		assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	})
}

func TestLoadConfig_Precedence(t *testing.T) {
	p := writeFile(t, "cfg.yaml", "jwt_secret: file-secret\nport: 9000\nlog_level: warn\n")

	t.Setenv("PORT", "9001")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	cfg, err := LoadConfig([]string{"-c", p, "-l", "debug", "-prefix", "api/"})
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.JWTSecret) // file
	assert.Equal(t, 9001, cfg.Port)               // env beats file
	assert.Equal(t, "debug", cfg.LogLevel)        // flag beats file
	assert.Equal(t, "/api", cfg.APIPrefix)        // normalized
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := LoadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
