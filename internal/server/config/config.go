// Package config handles configuration for the landmark service: defaults,
// a JSON overlay, .env/environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Session and media backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendLocal    = "local"
	BackendS3       = "s3"
)

// Config holds runtime settings for the landmark service.
//
// Fields:
//   - DatabaseDSN: PostgreSQL DSN (pgx); the database needs the postgis extension.
//   - DBMaxOpenConns / DBMaxIdleConns: bounds of the shared connection pool.
//   - AdminLogin / AdminPassword / AdminPasswordHash: the single operator credential.
//     When AdminPasswordHash (bcrypt) is set it takes precedence over the plaintext.
//   - SessionValidity: lifetime of an authorized session.
//   - SessionBackend: "postgres" (sessions table) or "sqlite" (local SessionFile).
//   - MediaBackend: "local" (ImagesDir) or "s3".
//   - MediaFetchTimeout: timeout for downloading photos referenced by URL.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: object storage.
//   - LogFormat / LogLevel: see logging.New.
//   - ConsoleUserID: identity used by the console transport.
type Config struct {
	DatabaseDSN       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	AdminLogin        string
	AdminPassword     string
	AdminPasswordHash string
	SessionValidity   time.Duration
	SessionBackend    string
	SessionFile       string
	MediaBackend      string
	ImagesDir         string
	MediaFetchTimeout time.Duration
	S3RootUser        string
	S3RootPassword    string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	LogFormat         string
	LogLevel          string
	ConsoleUserID     int64
}

// LoadDefaults populates Config with development defaults.
// NOTE: the admin password default is insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "postgres://postgres:postgres@db:5432/landmarks?sslmode=disable"
	c.DBMaxOpenConns = 10
	c.DBMaxIdleConns = 1
	c.AdminLogin = "admin"
	c.AdminPassword = "admin"
	c.SessionValidity = 30 * 24 * time.Hour
	c.SessionBackend = BackendPostgres
	c.SessionFile = "sessions.db"
	c.MediaBackend = BackendLocal
	c.ImagesDir = "images"
	c.MediaFetchTimeout = 30 * time.Second
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "landmarks"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogFormat = "json"
	c.LogLevel = "info"
	c.ConsoleUserID = 1
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.DatabaseDSN == "":
		return errors.New("database DSN is required")
	case c.DBMaxOpenConns < 1:
		return fmt.Errorf("db max open conns must be positive, got %d", c.DBMaxOpenConns)
	case c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns:
		return fmt.Errorf("db max idle conns must be within [0, %d], got %d", c.DBMaxOpenConns, c.DBMaxIdleConns)
	case c.AdminLogin == "":
		return errors.New("admin login is required")
	case c.AdminPassword == "" && c.AdminPasswordHash == "":
		return errors.New("admin password or password hash is required")
	case c.SessionValidity <= 0:
		return fmt.Errorf("session validity must be positive, got %s", c.SessionValidity)
	}

	switch c.SessionBackend {
	case BackendPostgres:
	case BackendSQLite:
		if c.SessionFile == "" {
			return errors.New("session file is required for the sqlite session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}

	switch c.MediaBackend {
	case BackendLocal:
		if c.ImagesDir == "" {
			return errors.New("images dir is required for the local media backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return errors.New("s3 bucket is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("unknown media backend %q", c.MediaBackend)
	}

	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (optionally seeded from a .env
// file) and finally command-line flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(args, cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(args, cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(args, cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
