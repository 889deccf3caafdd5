package media

import (
	"context"

	"github.com/dmitrijs2005/landmarkbot/internal/filex"
)

// LocalSink writes photos into a directory (images/ by default).
type LocalSink struct {
	dir string
}

// NewLocalSink creates dir if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalSink{dir: abs}, nil
}

// Dir is the absolute target directory.
func (s *LocalSink) Dir() string { return s.dir }

func (s *LocalSink) Put(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.dir, name, data)
}
