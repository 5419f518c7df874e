// internal/store/memory.go
//
// In-memory session store.
//
// Characteristics:
//   - Holds one *game.Session per session ID, plus the paragraph it was
//     started on and created/touched timestamps.
//   - The map is guarded by an RWMutex; each entry has its own mutex so a
//     game.Session (not safe for concurrent use) is only touched by one
//     request at a time. Always go through With.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/parasight/internal/game"
)

// ErrNotFound is returned for unknown or pruned session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Create stores s under a fresh ID and returns the ID.
	Create(ctx context.Context, s *game.Session) (string, error)

	// Replace swaps the session held under id, keeping the ID.
	Replace(ctx context.Context, id string, s *game.Session) error

	// With runs fn on the session under the entry lock.
	With(ctx context.Context, id string, fn func(*game.Session) error) error

	Delete(ctx context.Context, id string) error

	// Prune drops entries not touched since before and returns how many.
	Prune(ctx context.Context, before time.Time) int

	Len() int
}

type entry struct {
	mu      sync.Mutex
	session *game.Session
	created time.Time
	touched time.Time
}

type memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{entries: make(map[string]*entry), now: now}
}

func (m *memory) Create(ctx context.Context, s *game.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	t := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = &entry{session: s, created: t, touched: t}
	return id, nil
}

func (m *memory) Replace(ctx context.Context, id string, s *game.Session) error {
	return m.withEntry(ctx, id, func(e *entry) error {
		e.session = s
		e.created = e.touched
		return nil
	})
}

func (m *memory) With(ctx context.Context, id string, fn func(*game.Session) error) error {
	return m.withEntry(ctx, id, func(e *entry) error { return fn(e.session) })
}

func (m *memory) withEntry(ctx context.Context, id string, fn func(*entry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = m.now()
	return fn(e)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		e.mu.Lock()
		stale := e.touched.Before(before)
		e.mu.Unlock()
		if stale {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
