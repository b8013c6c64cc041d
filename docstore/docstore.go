// Package docstore holds uploaded source documents in memory, keyed by a
// server-generated id. Documents are immutable once stored: consumers receive
// the stored byte slice and must treat it as read-only.
//
// The store is read-mostly — Put on upload, concurrent Get during assembly —
// and carries its own lifecycle policy (optional TTL sweep plus explicit
// Release) so callers never depend on unbounded growth.
package docstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Ethan1812/pdf-edit-online/idgen"
)

// Reader is the read contract the assembly pipeline depends on. It never
// exposes the store's internal representation.
type Reader interface {
	// Get returns the stored bytes for id, or false if absent.
	Get(id string) ([]byte, bool)
	// Contains reports whether id is present.
	Contains(id string) bool
}

type entry struct {
	data     []byte
	storedAt time.Time
}

// Store is an in-memory document store.
type Store struct {
	mu     sync.RWMutex
	docs   map[string]entry
	newID  idgen.Generator
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the generator used for document ids.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithTTL enables expiry: documents older than d are removed by the sweeper.
// Zero (the default) disables expiry.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		docs:   make(map[string]entry),
		newID:  idgen.Prefixed("doc_", idgen.Default),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Put stores data under a freshly minted id and returns the id.
// The id is unique and stable for the store's lifetime; ids are never reused.
func (s *Store) Put(data []byte) string {
	id := s.newID()
	s.mu.Lock()
	s.docs[id] = entry{data: data, storedAt: time.Now()}
	s.mu.Unlock()
	return id
}

// Get returns the stored bytes for id. The returned slice must not be
// modified by the caller.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Contains reports whether id is present.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	_, ok := s.docs[id]
	s.mu.RUnlock()
	return ok
}

// Release removes a document explicitly, regardless of TTL.
func (s *Store) Release(id string) {
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// StartSweeper runs the TTL sweep every interval until ctx is cancelled.
// No-op when the store has no TTL.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.sweep(time.Now()); n > 0 {
					s.logger.Info("docstore sweep", "expired", n, "remaining", s.Len())
				}
			}
		}
	}()
}

// sweep removes entries older than the TTL and returns how many were removed.
func (s *Store) sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.docs {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.docs, id)
			removed++
		}
	}
	return removed
}
