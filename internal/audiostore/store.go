// Package audiostore keeps rendered WAV containers addressable by opaque
// handles. Each owner (a session) holds at most one live handle; registering
// a new container releases the previous one.
package audiostore

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/listening2go/internal/wav"
)

// ErrNotFound is returned for an unknown or released handle.
var ErrNotFound = errors.New("audio not found")

// Entry is a stored container.
type Entry struct {
	Handle    string
	Owner     string
	Container *wav.Container
	CreatedAt time.Time
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry // by handle
	owners  map[string]string // owner -> handle
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]*Entry),
		owners:  make(map[string]string),
	}
}

// Replace registers c for owner and returns its new handle. The owner's
// previous handle, if any, stops resolving.
func (s *Store) Replace(owner string, c *wav.Container) string {
	handle := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.owners[owner]; ok {
		delete(s.entries, prev)
		slog.Debug("audio released", "owner", owner, "handle", prev)
	}
	s.entries[handle] = &Entry{
		Handle:    handle,
		Owner:     owner,
		Container: c,
		CreatedAt: time.Now(),
	}
	s.owners[owner] = handle
	return handle
}

// Release drops the owner's handle. It reports whether one existed.
func (s *Store) Release(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.owners[owner]
	if !ok {
		return false
	}
	delete(s.owners, owner)
	delete(s.entries, handle)
	return true
}

// Get resolves a handle.
func (s *Store) Get(handle string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Len returns the number of live handles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
