// Package landmarks provides the PostgreSQL/PostGIS repository for landmark
// records.
package landmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/dbx"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, name, COALESCE(address, ''), COALESCE(category, ''),
		COALESCE(description, ''), COALESCE(history, ''),
		COALESCE(ST_Y(location::geometry), 0), COALESCE(ST_X(location::geometry), 0),
		COALESCE(images_name, ''), photo`

type scanner interface {
	Scan(dest ...any) error
}

func scanLandmark(s scanner) (*models.Landmark, error) {
	l := &models.Landmark{}
	err := s.Scan(&l.ID, &l.Name, &l.Address, &l.Category, &l.Description, &l.History,
		&l.Location.Latitude, &l.Location.Longitude, &l.ImageName, &l.Photo)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM landmark WHERE name = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM landmark WHERE name = $1 AND id <> $2)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, name, exceptID).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

// LockName must run inside a transaction; the lock is released on commit or
// rollback.
func (r *PostgresRepository) LockName(ctx context.Context, name string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`

	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// LockSequence uses the two-key advisory lock space, so it never collides
// with a name lock from LockName.
func (r *PostgresRepository) LockSequence(ctx context.Context) error {
	query := `SELECT pg_advisory_xact_lock('landmark_id_seq'::regclass::oid::int, 0)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SyncSequence never moves the sequence below the current maximum id, even
// when rows were inserted without it. An empty table yields 1 next.
func (r *PostgresRepository) SyncSequence(ctx context.Context) error {
	query := `SELECT setval('landmark_id_seq', COALESCE(MAX(id), 0) + 1, false) FROM landmark`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Insert allocates the id from landmark_id_seq and returns it.
func (r *PostgresRepository) Insert(ctx context.Context, l *models.Landmark) (int64, error) {
	query := `
		INSERT INTO landmark (id, name, address, category, description, history, location, images_name, photo)
		VALUES (nextval('landmark_id_seq'), $1, $2, $3, $4, $5,
			ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		l.Name, l.Address, l.Category, l.Description, l.History,
		l.Location.Longitude, l.Location.Latitude, l.ImageName, l.Photo).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Landmark, error) {
	query := `SELECT ` + selectColumns + ` FROM landmark WHERE id = $1`

	l, err := scanLandmark(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

// GetByName returns the lowest-id match; names are not unique at the
// storage level.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Landmark, error) {
	query := `SELECT ` + selectColumns + ` FROM landmark WHERE name = $1 ORDER BY id LIMIT 1`

	l, err := scanLandmark(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.Landmark, error) {
	query := `SELECT ` + selectColumns + ` FROM landmark ORDER BY id LIMIT $1 OFFSET $2`

	// LIMIT NULL is LIMIT ALL in PostgreSQL
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, query, limitArg, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select landmarks: %w", err)
	}
	defer rows.Close()

	var result []*models.Landmark
	for rows.Next() {
		l, err := scanLandmark(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM landmark`

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM landmark WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return dbx.Affected(res)
}

// UpdateField writes a single column. Location is re-encoded as a geography
// point; every other field is a plain text replacement.
func (r *PostgresRepository) UpdateField(ctx context.Context, id int64, u models.FieldUpdate) (bool, error) {
	var (
		query string
		args  []any
	)

	switch v := u.(type) {
	case models.LocationUpdate:
		query = `UPDATE landmark SET location = ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography WHERE id = $3`
		args = []any{v.Value.Longitude, v.Value.Latitude, id}
	case models.NameUpdate:
		query, args = textUpdate(u.Field(), v.Value, id)
	case models.AddressUpdate:
		query, args = textUpdate(u.Field(), v.Value, id)
	case models.CategoryUpdate:
		query, args = textUpdate(u.Field(), v.Value, id)
	case models.DescriptionUpdate:
		query, args = textUpdate(u.Field(), v.Value, id)
	case models.HistoryUpdate:
		query, args = textUpdate(u.Field(), v.Value, id)
	case models.ImageNameUpdate:
		query, args = textUpdate(u.Field(), v.Value, id)
	default:
		return false, fmt.Errorf("unsupported field update %T", u)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return dbx.Affected(res)
}

// textUpdate builds the statement for a text column. The column name comes
// from the closed models.Field set, never from user input.
func textUpdate(f models.Field, value string, id int64) (string, []any) {
	return fmt.Sprintf(`UPDATE landmark SET %s = $1 WHERE id = $2`, f.Column()), []any{value, id}
}

// Update writes every field of l, location included, in one statement.
func (r *PostgresRepository) Update(ctx context.Context, l *models.Landmark) (bool, error) {
	query := `
		UPDATE landmark SET
			name = $1, address = $2, category = $3, description = $4, history = $5,
			location = ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography,
			images_name = $8
		WHERE id = $9
	`

	res, err := r.db.ExecContext(ctx, query,
		l.Name, l.Address, l.Category, l.Description, l.History,
		l.Location.Longitude, l.Location.Latitude, l.ImageName, l.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return dbx.Affected(res)
}
