// Package media fetches operator photos and stores them under the name the
// operator chose, either on local disk or in S3-compatible storage.
package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// Fetcher downloads the bytes behind a media reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Sink persists a photo under a bare file name.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// Store combines a Fetcher and a Sink.
type Store struct {
	fetcher Fetcher
	sink    Sink
	logger  logging.Logger
}

func NewStore(fetcher Fetcher, sink Sink, logger logging.Logger) *Store {
	return &Store{fetcher: fetcher, sink: sink, logger: logger}
}

// ValidateName accepts bare file names only: no path separators, no "." or
// "..", no control characters.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty file name", common.ErrValidation)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is not a file name", common.ErrValidation, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: file name %q must not contain path separators", common.ErrValidation, name)
	case strings.IndexFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0:
		return fmt.Errorf("%w: file name contains control characters", common.ErrValidation)
	}
	return nil
}

// FetchAndStore downloads ref and stores it as name. Any failure is reported
// as common.ErrMedia.
func (s *Store) FetchAndStore(ctx context.Context, ref models.MediaRef, name string) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", common.ErrMedia, err)
	}

	data, err := s.fetcher.Fetch(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %w", common.ErrMedia, ref.ID, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: fetch %s: empty payload", common.ErrMedia, ref.ID)
	}

	if err := s.sink.Put(ctx, name, data); err != nil {
		return fmt.Errorf("%w: store %s: %w", common.ErrMedia, name, err)
	}

	s.logger.Info(ctx, "photo stored", "ref", ref.ID, "name", name, "bytes", len(data))
	return nil
}
