// Package cache provides an in-memory TTL store that shields the upstream
// search layer from redundant lookups. Instances are explicitly constructed
// and injectable so tests and independent callers get isolated state.
package cache

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// SweepInterval is how often the background sweeper reclaims expired
// entries. Sweeping is memory reclamation only; Get already checks expiry.
const SweepInterval = 5 * time.Minute

type entry struct {
	value      any
	insertedAt time.Time
	expiresAt  time.Time
}

// Store is a concurrency-safe TTL keyed store. Writes are last-write-wins
// per key; no ordering is guaranteed beyond that.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

// Stats is a point-in-time snapshot of the store's contents.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// New creates an empty store. A non-positive defaultTTL falls back to
// DefaultTTL.
func New(defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the stored value if present and not expired. An expired entry
// behaves as absent and is lazily evicted.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := s.entries[key]; ok && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given ttl, overwriting any existing
// entry. A non-positive ttl uses the store default.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()
	s.mu.Lock()
	s.entries[key] = entry{
		value:      value,
		insertedAt: now,
		expiresAt:  now.Add(ttl),
	}
	s.mu.Unlock()
}

// Delete removes a single key. Returns whether the key was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Sweep removes every expired entry and returns how many were reclaimed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats reports the current entry count and keys.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return Stats{Size: len(s.entries), Keys: keys}
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = SweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Printf("cache: swept %d expired entries", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SearchKey builds the deterministic cache key for a search query. The query
// text is trimmed and case-folded so logically identical queries always map
// to the same key; mode, page size, and cursor keep distinct queries from
// colliding. An empty cursor means the first page.
func SearchKey(query, mode string, pageSize int, pageToken string) string {
	if pageToken == "" {
		pageToken = "first"
	}
	parts := []string{
		"search",
		mode,
		strings.ToLower(strings.TrimSpace(query)),
		strconv.Itoa(pageSize),
		pageToken,
	}
	return strings.Join(parts, ":")
}
