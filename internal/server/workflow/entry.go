package workflow

import (
	"sync"

	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

// Entry is the in-progress conversation of one user.
type Entry struct {
	UserID int64
	Flow   Flow
	State  State

	// Draft is the landmark being filled in. In the edit flow it starts as
	// a copy of the target record.
	Draft models.Landmark
	// Login is the accepted login, kept until the password arrives.
	Login string
	// Photo is the chosen variant of the uploaded photo.
	Photo *models.MediaRef

	// TargetID and Field are set by the edit flows.
	TargetID int64
	Field    models.Field
	// Patch collects the changes of the full-record edit.
	Patch models.LandmarkPatch
}

// EntryStore keeps at most one Entry per user.
type EntryStore interface {
	Get(userID int64) (Entry, bool)
	// Put stores e, replacing any previous entry of e.UserID.
	Put(e Entry)
	Delete(userID int64)
}

// MemoryEntryStore is an EntryStore guarded by a single mutex. Entries do
// not survive a restart.
type MemoryEntryStore struct {
	mu      sync.Mutex
	entries map[int64]Entry
}

func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{entries: make(map[int64]Entry)}
}

func (s *MemoryEntryStore) Get(userID int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	return e, ok
}

func (s *MemoryEntryStore) Put(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.UserID] = e
}

func (s *MemoryEntryStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}
