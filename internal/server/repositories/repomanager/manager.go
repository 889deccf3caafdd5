package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/landmarkbot/internal/dbx"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/landmarks"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// the same repository either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Landmarks(db dbx.DBTX) landmarks.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
