package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultEnvFile = ".env"

// EnvConfig is the DTO read from environment variables. Besides the
// LANDMARKS_* settings it understands the DB_NAME/DB_USER/DB_PASSWORD/
// DB_HOST/DB_PORT quintet, which is composed into a DSN.
type EnvConfig struct {
	DatabaseDSN       string        `envconfig:"LANDMARKS_DATABASE_DSN"`
	DBName            string        `envconfig:"DB_NAME"`
	DBUser            string        `envconfig:"DB_USER"`
	DBPassword        string        `envconfig:"DB_PASSWORD"`
	DBHost            string        `envconfig:"DB_HOST"`
	DBPort            string        `envconfig:"DB_PORT"`
	DBMaxOpenConns    int           `envconfig:"LANDMARKS_DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `envconfig:"LANDMARKS_DB_MAX_IDLE_CONNS"`
	AdminLogin        string        `envconfig:"ADMIN_LOGIN"`
	AdminPassword     string        `envconfig:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	SessionValidity   time.Duration `envconfig:"LANDMARKS_SESSION_VALIDITY"`
	SessionBackend    string        `envconfig:"LANDMARKS_SESSION_BACKEND"`
	SessionFile       string        `envconfig:"LANDMARKS_SESSION_FILE"`
	MediaBackend      string        `envconfig:"LANDMARKS_MEDIA_BACKEND"`
	ImagesDir         string        `envconfig:"LANDMARKS_IMAGES_DIR"`
	MediaFetchTimeout time.Duration `envconfig:"LANDMARKS_MEDIA_FETCH_TIMEOUT"`
	S3RootUser        string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword    string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket          string        `envconfig:"S3_BUCKET"`
	S3Region          string        `envconfig:"S3_REGION"`
	S3BaseEndpoint    string        `envconfig:"S3_BASE_ENDPOINT"`
	LogFormat         string        `envconfig:"LANDMARKS_LOG_FORMAT"`
	LogLevel          string        `envconfig:"LANDMARKS_LOG_LEVEL"`
	ConsoleUserID     int64         `envconfig:"LANDMARKS_CONSOLE_USER_ID"`
}

// parseEnv seeds the process environment from the .env file (given with
// -env, or ./.env when present) without overriding variables that are
// already set, then overlays config with the recognised variables.
func parseEnv(args []string, config *Config) error {
	envFile := flagx.EnvFile(args)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", defaultEnvFile, err)
	}

	c := &EnvConfig{}
	if err := envconfig.Process("", c); err != nil {
		return err
	}

	dsn, err := c.composeDSN()
	if err != nil {
		return err
	}
	setString(&config.DatabaseDSN, dsn)
	setString(&config.DatabaseDSN, c.DatabaseDSN)

	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setInt(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	setString(&config.AdminLogin, c.AdminLogin)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.AdminPasswordHash, c.AdminPasswordHash)
	setDuration(&config.SessionValidity, c.SessionValidity)
	setString(&config.SessionBackend, c.SessionBackend)
	setString(&config.SessionFile, c.SessionFile)
	setString(&config.MediaBackend, c.MediaBackend)
	setString(&config.ImagesDir, c.ImagesDir)
	setDuration(&config.MediaFetchTimeout, c.MediaFetchTimeout)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.ConsoleUserID != 0 {
		config.ConsoleUserID = c.ConsoleUserID
	}
	return nil
}

// composeDSN builds a pgx DSN from DB_* variables. It returns "" when
// DB_NAME, DB_USER and DB_PASSWORD are all unset, and an error when only
// some of them are set.
func (c *EnvConfig) composeDSN() (string, error) {
	required := map[string]string{"DB_NAME": c.DBName, "DB_USER": c.DBUser, "DB_PASSWORD": c.DBPassword}

	var missing []string
	for _, name := range []string{"DB_NAME", "DB_USER", "DB_PASSWORD"} {
		if required[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == len(required) {
		return "", nil
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required database environment variables: %s", strings.Join(missing, ", "))
	}

	host, port := c.DBHost, c.DBPort
	if host == "" {
		host = "db"
	}
	if port == "" {
		port = "5432"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String(), nil
}
