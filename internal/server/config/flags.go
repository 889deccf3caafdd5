package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/landmarkbot/internal/flagx"
)

var ownFlags = []string{"-d", "-l", "-p", "-s", "-b", "-m", "-i", "-e", "-g", "-u", "-f", "-v"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string     PostgreSQL DSN
//	-l string     admin login
//	-p string     admin password
//	-s duration   session validity (e.g. "720h")
//	-b string     session backend: postgres | sqlite
//	-m string     media backend: local | s3
//	-i string     images directory for the local media backend
//	-e string     S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-g string     S3 region
//	-u int        console user id
//	-f string     log format: json | text | console
//	-v string     log level
//
// args is filtered with flagx.FilterArgs first so that -c/-config and -env,
// owned by the other layers, do not break parsing.
func parseFlags(args []string, config *Config) error {
	args = flagx.FilterArgs(args, ownFlags)

	fs := flag.NewFlagSet("landmarkbot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AdminLogin, "l", config.AdminLogin, "admin login")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "admin password")
	fs.DurationVar(&config.SessionValidity, "s", config.SessionValidity, "session validity")
	fs.StringVar(&config.SessionBackend, "b", config.SessionBackend, "session backend")
	fs.StringVar(&config.MediaBackend, "m", config.MediaBackend, "media backend")
	fs.StringVar(&config.ImagesDir, "i", config.ImagesDir, "images directory")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.Int64Var(&config.ConsoleUserID, "u", config.ConsoleUserID, "console user id")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	return fs.Parse(args)
}
