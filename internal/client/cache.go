// Package client implements the programmatic API client used by
// dashboard tooling. It keeps list responses in a local cache and
// supports optimistic mutations: speculative cache edits that are
// rolled back byte-for-byte when the server rejects the change.
package client

import (
	"sync"
)

// ListKey names one cached list resource, e.g. "companies",
// "companies/my", "data-requests".
type ListKey string

// Store is a mutex-protected cache of raw JSON list payloads keyed by
// ListKey. Payloads are kept as received from the server; the store
// never re-encodes them, so a Snapshot followed by Restore is an exact
// byte-level undo.
type Store struct {
	mu      sync.RWMutex
	entries map[ListKey]entry
}

type entry struct {
	data  []byte
	stale bool
}

func NewStore() *Store {
	return &Store{entries: make(map[ListKey]entry)}
}

// Get returns the cached payload and whether the entry is stale. The
// returned slice is a copy; callers may modify it freely.
func (s *Store) Get(key ListKey) (data []byte, stale, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}
	return append([]byte(nil), e.data...), e.stale, true
}

// Set stores a payload and clears the stale flag.
func (s *Store) Set(key ListKey, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{data: append([]byte(nil), data...)}
}

// Invalidate drops an entry entirely.
func (s *Store) Invalidate(key ListKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// MarkStale flags an entry for refetch without dropping its data, so
// readers keep seeing the last known payload meanwhile.
func (s *Store) MarkStale(key ListKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.stale = true
		s.entries[key] = e
	}
}

// Snapshot captures the current state of the given keys, payload and
// stale flag both. Missing keys are recorded as absent so Restore can
// delete entries created after the snapshot was taken.
func (s *Store) Snapshot(keys ...ListKey) map[ListKey]*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[ListKey]*entry, len(keys))
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			snap[k] = &entry{data: append([]byte(nil), e.data...), stale: e.stale}
		} else {
			snap[k] = nil
		}
	}
	return snap
}

// Restore puts a snapshot back verbatim, stale flags included, so an
// entry that was already pending refetch stays that way after a
// rollback. Entries recorded as absent are deleted. All keys are
// restored under one lock acquisition, so a multi-list rollback is
// atomic with respect to readers.
func (s *Store) Restore(snap map[ListKey]*entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range snap {
		if e == nil {
			delete(s.entries, k)
			continue
		}
		s.entries[k] = entry{data: append([]byte(nil), e.data...), stale: e.stale}
	}
}
