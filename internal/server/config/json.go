package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/landmarkbot/internal/flagx"
	"github.com/dmitrijs2005/landmarkbot/internal/timex"
)

// JsonConfig is the DTO read from the JSON config file. Durations use
// timex.Duration so both "720h" and integer nanoseconds are accepted.
// Absent (zero) fields leave the current value untouched.
type JsonConfig struct {
	DatabaseDSN       string         `json:"database_dsn"`
	DBMaxOpenConns    int            `json:"db_max_open_conns"`
	DBMaxIdleConns    int            `json:"db_max_idle_conns"`
	AdminLogin        string         `json:"admin_login"`
	AdminPassword     string         `json:"admin_password"`
	AdminPasswordHash string         `json:"admin_password_hash"`
	SessionValidity   timex.Duration `json:"session_validity"`
	SessionBackend    string         `json:"session_backend"`
	SessionFile       string         `json:"session_file"`
	MediaBackend      string         `json:"media_backend"`
	ImagesDir         string         `json:"images_dir"`
	MediaFetchTimeout timex.Duration `json:"media_fetch_timeout"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	LogFormat         string         `json:"log_format"`
	LogLevel          string         `json:"log_level"`
	ConsoleUserID     int64          `json:"console_user_id"`
}

// parseJson loads the file named by -c/-config (if any) into config.
// A missing flag is not an error; an unreadable file or invalid JSON is.
func parseJson(args []string, config *Config) error {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setInt(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	setString(&config.AdminLogin, c.AdminLogin)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.AdminPasswordHash, c.AdminPasswordHash)
	setDuration(&config.SessionValidity, c.SessionValidity.Duration)
	setString(&config.SessionBackend, c.SessionBackend)
	setString(&config.SessionFile, c.SessionFile)
	setString(&config.MediaBackend, c.MediaBackend)
	setString(&config.ImagesDir, c.ImagesDir)
	setDuration(&config.MediaFetchTimeout, c.MediaFetchTimeout.Duration)
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
