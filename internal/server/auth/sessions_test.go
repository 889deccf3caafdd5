package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionStore is an in-memory sessions.Repository.
type fakeSessionStore struct {
	mu      sync.Mutex
	rows    map[int64]time.Time
	deleted []int64
	failErr error
}

func newFakeStore() *fakeSessionStore {
	return &fakeSessionStore{rows: map[int64]time.Time{}}
}

func (f *fakeSessionStore) Save(_ context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.rows[s.UserID] = s.ExpiresAt
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.rows, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeSessionStore) List(_ context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	var out []models.Session
	for id, exp := range f.rows {
		out = append(out, models.Session{UserID: id, ExpiresAt: exp})
	}
	return out, nil
}

func (f *fakeSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return 0, f.failErr
	}
	var n int64
	for id, exp := range f.rows {
		if !now.Before(exp) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newManager(t *testing.T, store *fakeSessionStore) (*SessionManager, *fakeClock) {
	t.Helper()
	creds, err := NewCredentials("admin", "s3cret", "")
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewSessionManager(store, creds, logging.Nop(), WithClock(clock.Now)), clock
}

func TestAuthenticate_ValidityWindow(t *testing.T) {
	ctx := context.Background()
	m, clock := newManager(t, newFakeStore())

	ok, err := m.Authenticate(ctx, 1, "admin", "s3cret")
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, m.IsAuthorized(ctx, 1), "authorized at now")

	clock.Advance(29 * 24 * time.Hour)
	assert.True(t, m.IsAuthorized(ctx, 1), "authorized at now+29d")

	clock.Advance(2 * 24 * time.Hour)
	assert.False(t, m.IsAuthorized(ctx, 1), "unauthorized at now+31d")
}

func TestAuthenticate_WrongCredentials(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m, _ := newManager(t, store)

	ok, err := m.Authenticate(ctx, 1, "admin", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, m.IsAuthorized(ctx, 1))
	assert.Empty(t, store.rows)
}

func TestAuthenticate_PersistsAndRefreshes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m, clock := newManager(t, store)

	_, err := m.Authenticate(ctx, 1, "admin", "s3cret")
	require.NoError(t, err)
	first := store.rows[1]

	clock.Advance(time.Hour)
	_, err = m.Authenticate(ctx, 1, "admin", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, first.Add(time.Hour), store.rows[1])
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failErr = errors.New("disk full")
	m, _ := newManager(t, store)

	ok, err := m.Authenticate(ctx, 1, "admin", "s3cret")
	assert.True(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsAuthorized_EvictsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m, clock := newManager(t, store)

	_, err := m.Authenticate(ctx, 7, "admin", "s3cret")
	require.NoError(t, err)

	clock.Advance(DefaultValidity)
	assert.False(t, m.IsAuthorized(ctx, 7), "expiry is exclusive")
	assert.Equal(t, []int64{7}, store.deleted)
	assert.NotContains(t, store.rows, int64(7))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m, _ := newManager(t, store)

	_, err := m.Authenticate(ctx, 1, "admin", "s3cret")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx, 1))
	assert.False(t, m.IsAuthorized(ctx, 1))
	assert.Empty(t, store.rows)

	require.NoError(t, m.Logout(ctx, 2), "logout without a session is fine")
}

func TestLoad_PurgesExpiredAndKeepsSurvivors(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m, clock := newManager(t, store)
	now := clock.Now()

	store.rows[1] = now.Add(time.Hour)
	store.rows[2] = now.Add(-time.Hour)
	store.rows[3] = now

	require.NoError(t, m.Load(ctx))

	assert.True(t, m.IsAuthorized(ctx, 1), "survivor needs no re-authentication")
	assert.False(t, m.IsAuthorized(ctx, 2))
	assert.False(t, m.IsAuthorized(ctx, 3))
	assert.Len(t, store.rows, 1, "expired rows purged from the store")
}

func TestLoad_StoreError(t *testing.T) {
	store := newFakeStore()
	store.failErr = errors.New("no such table")
	m, _ := newManager(t, store)

	err := m.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestWithValidity(t *testing.T) {
	ctx := context.Background()
	creds, err := NewCredentials("admin", "s3cret", "")
	require.NoError(t, err)
	clock := &fakeClock{now: time.Unix(0, 0)}
	m := NewSessionManager(newFakeStore(), creds, logging.Nop(), WithClock(clock.Now), WithValidity(time.Minute))

	_, err = m.Authenticate(ctx, 1, "admin", "s3cret")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	assert.False(t, m.IsAuthorized(ctx, 1))
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, newFakeStore())

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = m.Authenticate(ctx, id, "admin", "s3cret")
			_ = m.IsAuthorized(ctx, id)
			_ = m.Logout(ctx, id)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 20; i++ {
		assert.False(t, m.IsAuthorized(ctx, i))
	}
}

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m, clock := newManager(t, store)

	_, err := m.Authenticate(ctx, 1, "admin", "s3cret")
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = m.Authenticate(ctx, 2, "admin", "s3cret")
	require.NoError(t, err)

	clock.Advance(DefaultValidity - time.Hour)

	n, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotContains(t, store.rows, int64(1))
	assert.Contains(t, store.rows, int64(2))
	assert.True(t, m.IsAuthorized(ctx, 2))

	store.failErr = errors.New("disk full")
	_, err = m.PurgeExpired(ctx)
	assert.Error(t, err)
}
