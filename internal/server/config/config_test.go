package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, 10, c.DBMaxOpenConns)
	assert.Equal(t, 1, c.DBMaxIdleConns)
	assert.Equal(t, 30*24*time.Hour, c.SessionValidity)
	assert.Equal(t, BackendPostgres, c.SessionBackend)
	assert.Equal(t, BackendLocal, c.MediaBackend)
	assert.Equal(t, "images", c.ImagesDir)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }, "database DSN"},
		{"no conns", func(c *Config) { c.DBMaxOpenConns = 0 }, "max open conns"},
		{"idle above open", func(c *Config) { c.DBMaxIdleConns = 11 }, "max idle conns"},
		{"no login", func(c *Config) { c.AdminLogin = "" }, "admin login"},
		{"no password", func(c *Config) { c.AdminPassword = "" }, "admin password"},
		{"zero validity", func(c *Config) { c.SessionValidity = 0 }, "session validity"},
		{"bad session backend", func(c *Config) { c.SessionBackend = "redis" }, "session backend"},
		{"sqlite without file", func(c *Config) { c.SessionBackend = BackendSQLite; c.SessionFile = "" }, "session file"},
		{"bad media backend", func(c *Config) { c.MediaBackend = "ftp" }, "media backend"},
		{"local without dir", func(c *Config) { c.ImagesDir = "" }, "images dir"},
		{"s3 without bucket", func(c *Config) { c.MediaBackend = BackendS3; c.S3Bucket = "" }, "s3 bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("hash without plaintext is fine", func(t *testing.T) {
		var c Config
		c.LoadDefaults()
		c.AdminPassword = ""
		c.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
		assert.NoError(t, c.Validate())
	})
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_LOGIN", "env-admin")
	t.Setenv("LANDMARKS_LOG_LEVEL", "warn")

	path := writeTempJSON(t, "", "", map[string]any{
		"admin_login": "json-admin",
		"log_level":   "debug",
		"images_dir":  "json-images",
	})

	cfg, err := load([]string{"-c", path, "-v", "error"})
	require.NoError(t, err)

	assert.Equal(t, "json-images", cfg.ImagesDir, "json overrides defaults")
	assert.Equal(t, "env-admin", cfg.AdminLogin, "env overrides json")
	assert.Equal(t, "error", cfg.LogLevel, "flags override env")
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := load([]string{"-b", "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
