// Package sessions persists authorization sessions (user id -> expiry) either
// in PostgreSQL or in a local SQLite file.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

type Repository interface {
	// Save creates or refreshes the session of userID.
	Save(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]models.Session, error)
	// DeleteExpired removes every session with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
