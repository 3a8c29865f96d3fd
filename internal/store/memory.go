// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Interactive solver sessions live here between HTTP requests.
//
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions are replaced wholesale on Save; solver States are immutable so
//     a reader holding an old *Session never sees a half-applied turn.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one interactive solve: the policy, the current State and the
// turns recorded so far.
type Session struct {
	ID        string
	Config    solver.Config
	State     *solver.State
	Turns     []solver.Turn
	Solved    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store defines the persistence interface for solver sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Update applies fn to a copy of the session and stores the copy if fn
	// succeeds. Updates to one session are serialized.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops sessions not updated since before, returning how many.
	Sweep(ctx context.Context, before time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// NewID returns a compact 16-hex-char session identifier.
func NewID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Save adds or updates the session in the map. An empty ID is assigned.
func (m *memory) Save(_ context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	metrics.Sessions.Set(float64(len(m.sessions)))
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(_ context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := *cur
	next.Turns = slices.Clone(cur.Turns)
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = cur.ID
	next.UpdatedAt = time.Now()
	m.sessions[id] = &next
	return &next, nil
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	metrics.Sessions.Set(float64(len(m.sessions)))
	return nil
}

func (m *memory) Sweep(_ context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	metrics.Sessions.Set(float64(len(m.sessions)))
	return n
}
