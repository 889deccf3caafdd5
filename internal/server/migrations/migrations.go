// Package migrations embeds the goose SQL migrations.
package migrations

import "embed"

// Postgres holds the landmark and sessions schema. PostGIS is required.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the schema of the local session file.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
