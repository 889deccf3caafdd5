package media

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	data []byte
	err  error
	refs []string
}

func (f *fakeFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	f.refs = append(f.refs, ref)
	return f.data, f.err
}

type fakeSink struct {
	stored map[string][]byte
	err    error
}

func (f *fakeSink) Put(_ context.Context, name string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.stored == nil {
		f.stored = map[string][]byte{}
	}
	f.stored[name] = data
	return nil
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"redsquare.jpg", "Кремль.png", "a b.jpeg", ".hidden"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "  ", ".", "..", "../etc/passwd", "a/b.jpg", `a\b.jpg`, "bad\x00name"} {
		err := ValidateName(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestFetchAndStore_Success(t *testing.T) {
	f := &fakeFetcher{data: []byte("jpeg")}
	s := &fakeSink{}
	store := NewStore(f, s, logging.Nop())

	err := store.FetchAndStore(context.Background(), models.MediaRef{ID: "file-1"}, "redsquare.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"file-1"}, f.refs)
	assert.Equal(t, []byte("jpeg"), s.stored["redsquare.jpg"])
}

func TestFetchAndStore_Failures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		sink    *fakeSink
		dest    string
	}{
		{"bad name", &fakeFetcher{data: []byte("x")}, &fakeSink{}, "../x.jpg"},
		{"fetch error", &fakeFetcher{err: errors.New("404")}, &fakeSink{}, "x.jpg"},
		{"empty payload", &fakeFetcher{}, &fakeSink{}, "x.jpg"},
		{"sink error", &fakeFetcher{data: []byte("x")}, &fakeSink{err: errors.New("read-only fs")}, "x.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.fetcher, tt.sink, logging.Nop())

			err := store.FetchAndStore(context.Background(), models.MediaRef{ID: "ref"}, tt.dest)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrMedia)
			assert.Empty(t, tt.sink.stored)
		})
	}
}
