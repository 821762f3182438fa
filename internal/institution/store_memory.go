package institution

import (
	"context"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu           sync.RWMutex
	institutions map[domain.Principal]Institution
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{institutions: make(map[domain.Principal]Institution)}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, institution Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.institutions[institution.Address]; ok {
		return sentinel.ErrConflict
	}
	s.institutions[institution.Address] = institution
	return nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address domain.Principal) (Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	institution, ok := s.institutions[address]
	if !ok {
		return Institution{}, sentinel.ErrNotFound
	}
	return institution, nil
}

func (s *InMemoryStore) Execute(_ context.Context, address domain.Principal, validate func(Institution) error, mutate func(*Institution)) (Institution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	institution, ok := s.institutions[address]
	if !ok {
		return Institution{}, sentinel.ErrNotFound
	}
	if err := validate(institution); err != nil {
		return Institution{}, err
	}
	mutate(&institution)
	s.institutions[address] = institution
	return institution, nil
}
