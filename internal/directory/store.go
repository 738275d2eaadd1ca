package directory

import (
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
)

// Source identifies where the currently served records came from.
type Source string

const (
	SourceNone        Source = "none"
	SourceUpstream    Source = "upstream"
	SourceMemory      Source = "memory"
	SourceSnapshot    Source = "snapshot"
	SourcePlaceholder Source = "placeholder"
)

// Status describes the freshness of the served listing.
type Status struct {
	Source    Source     `json:"source"`
	Error     bool       `json:"error"`
	Fallback  bool       `json:"fallback"`
	Message   string     `json:"message,omitempty"`
	Retryable bool       `json:"retryable"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	Count     int        `json:"count"`
}

// isFallback reports whether records from src are not from the latest poll.
func isFallback(src Source) bool {
	return src == SourceMemory || src == SourceSnapshot || src == SourcePlaceholder
}

// Store holds the in-memory directory of store records.
type Store struct {
	mu       sync.RWMutex
	records  []stores.StoreRecord
	index    map[string]int
	status   Status
	hasLive  bool
	lastSync time.Time
	now      func() time.Time
}

// NewStore returns an empty directory.
func NewStore() *Store {
	return &Store{
		index:  map[string]int{},
		status: Status{Source: SourceNone},
		now:    time.Now,
	}
}

// List returns a copy of every record in listing order.
func (s *Store) List() []stores.StoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]stores.StoreRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (stores.StoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[id]
	if !ok {
		return stores.StoreRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("store %q not found", id))
	}
	return s.records[idx].Clone(), nil
}

// UpdateField changes one field of a record locally. Nothing is sent upstream
// and the next successful poll overwrites the edit.
func (s *Store) UpdateField(id, field string, value any) (stores.StoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[id]
	if !ok {
		return stores.StoreRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("store %q not found", id))
	}
	updated := s.records[idx].Clone()
	if err := stores.ApplyField(&updated, field, value); err != nil {
		return stores.StoreRecord{}, err
	}
	s.records[idx] = updated
	return updated.Clone(), nil
}

// Status returns the current freshness of the listing.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	st.Count = len(s.records)
	st.Fallback = isFallback(st.Source)
	if !s.lastSync.IsZero() {
		ts := s.lastSync
		st.LastSync = &ts
	}
	return st
}

// Replace installs a successful listing and clears any error.
func (s *Store) Replace(records []stores.StoreRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(records)
	s.hasLive = true
	s.lastSync = s.now()
	s.status = Status{Source: SourceUpstream}
}

// HasLive reports whether a successful listing has ever been installed.
func (s *Store) HasLive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasLive
}

// MarkFailed raises the retryable error flag. When no live listing exists the
// fallback records are installed; otherwise the last success keeps being served.
func (s *Store) MarkFailed(cause error, fallback []stores.StoreRecord, source Source) Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasLive {
		source = SourceMemory
	} else {
		s.install(fallback)
	}
	msg := "failed to load stores"
	if cause != nil {
		msg = cause.Error()
	}
	s.status = Status{
		Source:    source,
		Error:     true,
		Message:   msg,
		Retryable: true,
	}
	return source
}

func (s *Store) install(records []stores.StoreRecord) {
	s.records = make([]stores.StoreRecord, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, dup := s.index[rec.ID]; dup {
			continue
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec.Clone())
	}
}
