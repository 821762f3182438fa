package patient

import (
	"context"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu       sync.RWMutex
	patients map[domain.Principal]Patient
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{patients: make(map[domain.Principal]Patient)}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, patient Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[patient.Address]; ok {
		return sentinel.ErrConflict
	}
	s.patients[patient.Address] = patient
	return nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address domain.Principal) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patient, ok := s.patients[address]
	if !ok {
		return Patient{}, sentinel.ErrNotFound
	}
	return patient, nil
}

func (s *InMemoryStore) Update(_ context.Context, patient Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[patient.Address]; !ok {
		return sentinel.ErrNotFound
	}
	s.patients[patient.Address] = patient
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patients), nil
}
