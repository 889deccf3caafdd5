package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/landmarkbot/internal/dbx"
	"github.com/dmitrijs2005/landmarkbot/internal/server/migrations"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/landmarks"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/sessions"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager serves the local session file. Landmarks always
// live in PostgreSQL, so they are delegated to the wrapped manager.
type SQLiteRepositoryManager struct {
	landmarks RepositoryManager
}

// NewSQLiteRepositoryManager returns a manager whose Sessions use SQLite and
// whose Landmarks come from pg.
func NewSQLiteRepositoryManager(pg RepositoryManager) RepositoryManager {
	return &SQLiteRepositoryManager{landmarks: pg}
}

func (m *SQLiteRepositoryManager) Landmarks(db dbx.DBTX) landmarks.Repository {
	return m.landmarks.Landmarks(db)
}

func (m *SQLiteRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLiteRepository(db)
}

// RunMigrations applies the session file schema.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.SQLite, "sqlite3", "sqlite")
}

// OpenSQLite opens the session file. A single connection avoids
// "database is locked" errors between writers.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
