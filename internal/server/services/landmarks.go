package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/dbx"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/repomanager"
)

// DefaultPageSize is the number of landmarks per list page.
const DefaultPageSize = 20

// LandmarkService owns landmark persistence: uniqueness, id allocation and
// atomic writes. Every write runs in its own transaction.
type LandmarkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLandmarkService(db *sql.DB, repomanager repomanager.RepositoryManager) *LandmarkService {
	return &LandmarkService{
		db:          db,
		repomanager: repomanager,
	}
}

// storageError classifies err as ErrStorage unless it already carries a
// domain sentinel.
func storageError(err error) error {
	switch {
	case err == nil,
		errors.Is(err, common.ErrStorage),
		errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrDuplicateName),
		errors.Is(err, common.ErrValidation):
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}

func validateLandmark(l *models.Landmark) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: empty name", common.ErrValidation)
	}
	return l.Location.Validate()
}

func (s *LandmarkService) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.repomanager.Landmarks(s.db).Exists(ctx, name)
	return ok, storageError(err)
}

// Create inserts l and returns the allocated id. Under a name-keyed advisory
// lock it re-checks the name; under the sequence lock it resyncs
// landmark_id_seq and inserts. Both locks are held until commit, so
// concurrent creates of different names never see the same MAX(id). A taken
// name yields ErrDuplicateName and nothing is written.
func (s *LandmarkService) Create(ctx context.Context, l *models.Landmark) (int64, error) {
	if err := validateLandmark(l); err != nil {
		return 0, err
	}

	var id int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Landmarks(tx)

		if err := repo.LockName(ctx, l.Name); err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, l.Name)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrDuplicateName
		}

		if err := repo.LockSequence(ctx); err != nil {
			return err
		}
		if err := repo.SyncSequence(ctx); err != nil {
			return err
		}

		id, err = repo.Insert(ctx, l)
		return err
	})
	if err != nil {
		return 0, storageError(err)
	}

	l.ID = id
	return id, nil
}

func (s *LandmarkService) GetByID(ctx context.Context, id int64) (*models.Landmark, error) {
	l, err := s.repomanager.Landmarks(s.db).GetByID(ctx, id)
	return l, storageError(err)
}

func (s *LandmarkService) GetByName(ctx context.Context, name string) (*models.Landmark, error) {
	l, err := s.repomanager.Landmarks(s.db).GetByName(ctx, name)
	return l, storageError(err)
}

// ListAll returns every landmark ordered by id.
func (s *LandmarkService) ListAll(ctx context.Context) ([]*models.Landmark, error) {
	items, err := s.repomanager.Landmarks(s.db).List(ctx, 0, 0)
	return items, storageError(err)
}

// Page is one page of the landmark list.
type Page struct {
	Items []*models.Landmark
	// Number is 1-based.
	Number int
	Size   int
	Total  int
}

// Pages is the number of pages needed for Total items.
func (p Page) Pages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// ListPage returns the 1-based page of landmarks ordered by id. Non-positive
// page and size fall back to 1 and DefaultPageSize.
func (s *LandmarkService) ListPage(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	repo := s.repomanager.Landmarks(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	items, err := repo.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, storageError(err)
	}

	return &Page{Items: items, Number: page, Size: size, Total: total}, nil
}

// DeleteByID reports whether a row was removed.
func (s *LandmarkService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = s.repomanager.Landmarks(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, storageError(err)
	}
	return deleted, nil
}

// UpdateField applies a single-field change. A rename is checked against
// every other row under the advisory lock of the new name. It returns false
// when no row has the given id.
func (s *LandmarkService) UpdateField(ctx context.Context, id int64, u models.FieldUpdate) (bool, error) {
	switch v := u.(type) {
	case models.NameUpdate:
		if strings.TrimSpace(v.Value) == "" {
			return false, fmt.Errorf("%w: empty name", common.ErrValidation)
		}
	case models.LocationUpdate:
		if err := v.Value.Validate(); err != nil {
			return false, err
		}
	}

	var updated bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Landmarks(tx)

		if v, ok := u.(models.NameUpdate); ok {
			if err := s.checkRename(ctx, repo, v.Value, id); err != nil {
				return err
			}
		}

		var err error
		updated, err = repo.UpdateField(ctx, id, u)
		return err
	})
	if err != nil {
		return false, storageError(err)
	}
	return updated, nil
}

// UpdateAll reads the current row, fills every nil field of patch from it
// and writes the whole record back in one statement.
func (s *LandmarkService) UpdateAll(ctx context.Context, id int64, patch models.LandmarkPatch) (bool, error) {
	var updated bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Landmarks(tx)

		cur, err := repo.GetByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		next := patch.Apply(*cur)
		if err := validateLandmark(&next); err != nil {
			return err
		}

		if next.Name != cur.Name {
			if err := s.checkRename(ctx, repo, next.Name, id); err != nil {
				return err
			}
		}

		updated, err = repo.Update(ctx, &next)
		return err
	})
	if err != nil {
		return false, storageError(err)
	}
	return updated, nil
}

type renameChecker interface {
	LockName(ctx context.Context, name string) error
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
}

func (s *LandmarkService) checkRename(ctx context.Context, repo renameChecker, name string, id int64) error {
	if err := repo.LockName(ctx, name); err != nil {
		return err
	}
	taken, err := repo.NameTaken(ctx, name, id)
	if err != nil {
		return err
	}
	if taken {
		return common.ErrDuplicateName
	}
	return nil
}
