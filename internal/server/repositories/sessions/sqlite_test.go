package sessions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection would get its own :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sessions (
  user_id    INTEGER PRIMARY KEY,
  expires_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLite_SaveAndList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Date(2030, 1, 2, 3, 4, 5, 6, time.UTC)

	require.NoError(t, r.Save(ctx, models.Session{UserID: 100, ExpiresAt: exp}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(100), got[0].UserID)
	assert.True(t, exp.Equal(got[0].ExpiresAt))
}

func TestSQLite_SaveRefreshes(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	first := time.Unix(1000, 0)
	second := time.Unix(2000, 0)

	require.NoError(t, r.Save(ctx, models.Session{UserID: 1, ExpiresAt: first}))
	require.NoError(t, r.Save(ctx, models.Session{UserID: 1, ExpiresAt: second}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, second.Equal(got[0].ExpiresAt))
}

func TestSQLite_Delete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.Session{UserID: 1, ExpiresAt: time.Unix(1000, 0)}))
	require.NoError(t, r.Delete(ctx, 1))
	require.NoError(t, r.Delete(ctx, 1), "deleting a missing session is not an error")

	got, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_DeleteExpired(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Unix(5000, 0)

	require.NoError(t, r.Save(ctx, models.Session{UserID: 1, ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, r.Save(ctx, models.Session{UserID: 2, ExpiresAt: now}))
	require.NoError(t, r.Save(ctx, models.Session{UserID: 3, ExpiresAt: now.Add(time.Hour)}))

	n, err := r.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].UserID)
}

func TestSQLite_ClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := r.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list sessions")
}
