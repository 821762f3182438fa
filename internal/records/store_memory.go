package records

import (
	"context"
	"sync"

	"vitacare/pkg/domain"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.Principal][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[domain.Principal][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Seq = domain.RecordID(len(s.entries[entry.Patient]) + 1)
	s.entries[entry.Patient] = append(s.entries[entry.Patient], entry)
	return entry, nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patient domain.Principal) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries[patient]...), nil
}

func (s *InMemoryStore) CountByPatient(_ context.Context, patient domain.Principal) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.entries[patient])), nil
}
