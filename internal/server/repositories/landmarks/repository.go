package landmarks

import (
	"context"

	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// Repository is the SQL surface over the landmark table. Implementations are
// bound to a dbx.DBTX, so the same methods run inside or outside a transaction.
type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	// NameTaken reports whether a row other than exceptID already uses name.
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	// LockName takes a transaction-scoped advisory lock keyed by name.
	LockName(ctx context.Context, name string) error
	// LockSequence takes a transaction-scoped advisory lock that serializes
	// every id allocation, whatever the name.
	LockSequence(ctx context.Context) error
	// SyncSequence moves landmark_id_seq so that nextval returns MAX(id)+1.
	SyncSequence(ctx context.Context) error
	Insert(ctx context.Context, l *models.Landmark) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Landmark, error)
	GetByName(ctx context.Context, name string) (*models.Landmark, error)
	// List returns landmarks ordered by id. limit <= 0 means no limit.
	List(ctx context.Context, offset, limit int) ([]*models.Landmark, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateField(ctx context.Context, id int64, u models.FieldUpdate) (bool, error)
	Update(ctx context.Context, l *models.Landmark) (bool, error)
}
