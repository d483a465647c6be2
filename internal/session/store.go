// Package session tracks the latest progress record of every analysis
// session in process-wide memory. One writer (the run that owns the
// session ID) and any number of polling or watching readers may touch the
// same session concurrently; readers never see a torn record.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// watchBuffer bounds how far a slow watcher may lag before updates are
// dropped for it. The store never blocks the writer on a reader.
const watchBuffer = 16

// Store is the in-memory session progress store
type Store struct {
	mu       sync.RWMutex
	records  map[string]model.SessionRecord
	watchers map[string]map[int]chan model.SessionRecord

	nextWatcher int
	clock       atomic.Int64
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		records:  make(map[string]model.SessionRecord),
		watchers: make(map[string]map[int]chan model.SessionRecord),
	}
}

// Upsert atomically replaces the record for a session and notifies
// watchers. Timestamps come from a process-local monotonic counter, so
// consecutive upserts always order even within one clock tick. Once a
// record reaches progress 100 its watchers are drained and closed.
func (s *Store) Upsert(sessionID, agent, status string, progress int, name string) model.SessionRecord {
	record := model.SessionRecord{
		SessionID: sessionID,
		Agent:     agent,
		Status:    status,
		Progress:  progress,
		Timestamp: s.clock.Add(1),
		Name:      name,
	}

	s.mu.Lock()
	s.records[sessionID] = record
	for _, ch := range s.watchers[sessionID] {
		select {
		case ch <- record:
		default:
		}
	}
	if record.Done() {
		for _, ch := range s.watchers[sessionID] {
			close(ch)
		}
		delete(s.watchers, sessionID)
	}
	s.mu.Unlock()

	return record
}

// Report is Upsert without the returned record, satisfying the
// orchestrator's progress reporter.
func (s *Store) Report(sessionID, agent, status string, progress int, name string) {
	s.Upsert(sessionID, agent, status, progress, name)
}

// Get returns the latest record for a session
func (s *Store) Get(sessionID string) (model.SessionRecord, bool) {
	s.mu.RLock()
	record, ok := s.records[sessionID]
	s.mu.RUnlock()
	return record, ok
}

// Poll returns the session's record only if it is newer than the given
// timestamp. A caller loops with the timestamp of the last record it saw.
func (s *Store) Poll(sessionID string, after int64) (model.SessionRecord, bool) {
	s.mu.RLock()
	record, ok := s.records[sessionID]
	s.mu.RUnlock()
	if !ok || record.Timestamp <= after {
		return model.SessionRecord{}, false
	}
	return record, true
}

// Watch subscribes to a session's updates. The current record, when one
// exists, is delivered first. The channel closes once the session reaches
// progress 100 or cancel is called; cancel is safe to call twice.
func (s *Store) Watch(sessionID string) (<-chan model.SessionRecord, func()) {
	ch := make(chan model.SessionRecord, watchBuffer)

	s.mu.Lock()
	record, exists := s.records[sessionID]
	if exists {
		ch <- record
	}
	if exists && record.Done() {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}

	if s.watchers[sessionID] == nil {
		s.watchers[sessionID] = make(map[int]chan model.SessionRecord)
	}
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[sessionID][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if ws, ok := s.watchers[sessionID]; ok {
			if ch, ok := ws[id]; ok {
				delete(ws, id)
				close(ch)
			}
			if len(ws) == 0 {
				delete(s.watchers, sessionID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
