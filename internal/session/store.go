// Package session keeps one editable ledger per uploaded statement.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// Session owns one Ledger. Every access goes through Do, which serialises
// callers so the ledger only ever sees one logical flow at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	source   string
	ledger   *ledger.Ledger
	lastUsed time.Time
}

// Do runs fn with exclusive access to the session's ledger.
func (s *Session) Do(fn func(l *ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.ledger)
}

// Load replaces the ledger contents with a new extraction. A new upload
// never merges with the previous one.
func (s *Session) Load(source string, records []models.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.ledger.Replace(records)
	s.lastUsed = time.Now()
}

// Source returns the file name of the current upload.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Store is an in-memory, concurrency-safe set of sessions. Nothing is
// persisted; a restart drops every session.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	newLedger func() *ledger.Ledger
}

// NewStore creates an empty store whose ledgers are built with opts.
func NewStore(opts ...ledger.Option) *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		newLedger: func() *ledger.Ledger { return ledger.New(opts...) },
	}
}

// Create starts a session holding the given extraction.
func (st *Store) Create(source string, records []models.TransactionRecord) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		source:    source,
		ledger:    st.newLedger(),
		lastUsed:  now,
	}
	s.ledger.Replace(records)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete discards a session. Deleting an unknown id returns ErrNotFound.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions unused for longer than maxIdle and returns how
// many were removed.
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
