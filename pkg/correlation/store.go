// Package correlation maps buyer blockchain addresses to emails, bridging
// the charge step with the final notification step.
package correlation

import (
	"strings"
	"sync"
	"time"
)

// Store is the address→email mapping shared by the intake and notification
// handlers. Addresses are normalized to uppercase by both operations, so
// lookups are case-insensitive.
type Store interface {
	Put(address, email string)
	Get(address string) (string, bool)
}

type entry struct {
	email     string
	expiresAt time.Time
}

// MemoryStore is a lock-protected in-memory Store. Entries never expire
// unless a TTL is set; the zero TTL matches the workflow's keep-forever
// semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithTTL evicts entries that have not been rewritten within d. A janitor
// goroutine runs until Close is called.
func WithTTL(d time.Duration) Option {
	return func(s *MemoryStore) { s.ttl = d }
}

// NewMemoryStore creates an in-memory correlation store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl > 0 {
		go s.janitor()
	}
	return s
}

// Put records the buyer email for an address, overwriting any previous entry.
func (s *MemoryStore) Put(address, email string) {
	key := normalize(address)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{email: email}
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[key] = e
}

// Get returns the email recorded for an address, if any.
func (s *MemoryStore) Get(address string) (string, bool) {
	key := normalize(address)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if s.ttl > 0 && time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.email, true
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the janitor goroutine, if any.
func (s *MemoryStore) Close() {
	close(s.done)
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}
}

func normalize(address string) string {
	return strings.ToUpper(address)
}

var _ Store = (*MemoryStore)(nil)
