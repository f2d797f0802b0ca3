// Package store holds processed schedules between requests. Each upload
// gets a UUID session id; entries expire after a TTL and are swept out by a
// cron job, so a lookup can legitimately miss after eviction — callers
// recover by re-uploading, it is not a pipeline fault.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"turnical/internal/calendar"
	appLog "turnical/internal/log"
	"turnical/internal/model"
)

// Entry is everything derived from one uploaded schedule. It is written
// once at Put time and never mutated; a new upload creates a new entry.
type Entry struct {
	Period model.Period
	Grid   *model.Grid

	// OriginalTable is the raw extracted table, kept for display.
	OriginalTable model.RawTable

	// Artifacts maps person name to their serialized calendar.
	Artifacts map[string]*calendar.Artifact

	CreatedAt time.Time
}

// Store is the only shared mutable structure in the service; it serializes
// concurrent insert/read/evict access itself. Grids and artifacts inside
// entries are immutable and safe to hand to any number of readers.
type Store struct {
	mu  sync.RWMutex
	ttl time.Duration

	entries map[string]*Entry

	persistDir string
}

// New creates a store whose entries expire ttl after insertion. If
// persistDir is non-empty, each session's calendar files are also written
// beneath it (and removed again on eviction).
func New(ttl time.Duration, persistDir string) *Store {
	return &Store{
		ttl:        ttl,
		entries:    make(map[string]*Entry),
		persistDir: persistDir,
	}
}

// Put stores an entry under a fresh session id and returns the id.
func (s *Store) Put(e *Entry) string {
	id := uuid.NewString()
	e.CreatedAt = time.Now()

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()

	if s.persistDir != "" {
		if err := persistArtifacts(s.persistDir, id, e); err != nil {
			// Disk copies are a convenience; the in-memory entry is
			// authoritative.
			appLog.Error("persist calendars failed", err, "session", id)
		}
	}

	appLog.Info("session stored", "session", id, "period", e.Period.String(), "people", len(e.Grid.Names()))
	return id
}

// Get returns the entry for id. An expired entry counts as missing even if
// the sweep has not removed it yet.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.expired(e, time.Now()) {
		return nil, false
	}
	return e, true
}

// EvictExpired removes every expired entry (and its persisted files) and
// returns how many were dropped.
func (s *Store) EvictExpired() int {
	now := time.Now()

	s.mu.Lock()
	var evicted []string
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		if s.persistDir != "" {
			if err := removePersisted(s.persistDir, id); err != nil {
				appLog.Error("remove persisted calendars failed", err, "session", id)
			}
		}
	}

	if len(evicted) > 0 {
		appLog.Info("session sweep", "evicted", len(evicted))
	}
	return len(evicted)
}

// Len returns the number of live (possibly expired, not yet swept) entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(e *Entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.CreatedAt) > s.ttl
}
