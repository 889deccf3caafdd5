package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/dbx"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// SQLiteRepository stores sessions in a local file. Expiry is kept as unix
// nanoseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, expires_at) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET expires_at = excluded.expires_at
	`, s.UserID, s.ExpiresAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save session[%d]: %w", s.UserID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete session[%d]: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, expires_at FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var (
			userID  int64
			expires int64
		)
		if err := rows.Scan(&userID, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		result = append(result, models.Session{UserID: userID, ExpiresAt: time.Unix(0, expires)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
