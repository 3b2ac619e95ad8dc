// internal/store/memory.go
//
// In-memory session store. Puzzle sessions live only as long as the
// process; nothing is written to disk.
//
// Characteristics:
//   - Stores *Session values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex so one puzzle is mutated by one
//     request at a time.
//   - Sessions idle longer than their TTL are removed by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// ErrNotFound is returned by Get for unknown or expired session IDs.
var ErrNotFound = errors.New("store: session not found")

// Mode values for Session.Mode.
const (
	ModeNormal = "normal"
	ModeDaily  = "daily"
)

// Session is one player's puzzle plus the metadata needed to rebuild it.
type Session struct {
	mu sync.Mutex

	ID        string
	Mode      string // ModeNormal or ModeDaily
	Date      string // date key for daily sessions
	ListID    string // catalog list the words came from, if any
	Puzzle    *puzzle.Puzzle
	CreatedAt time.Time
	touched   atomic.Int64 // unix nanos of last use
}

// Lock serializes access to the session's puzzle and marks it as used.
func (s *Session) Lock() {
	s.mu.Lock()
	s.touched.Store(time.Now().UnixNano())
}

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store defines the persistence interface for puzzle sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle for longer than ttl and reports how many.
	Sweep(ctx context.Context, ttl time.Duration) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.now()
	}
	s.touched.Store(m.now().UnixNano())
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, ttl time.Duration) int {
	cutoff := m.now().Add(-ttl).UnixNano()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.touched.Load() < cutoff {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
