package insurer

import (
	"context"
	"sort"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu       sync.RWMutex
	insurers map[domain.Principal]Insurer
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{insurers: make(map[domain.Principal]Insurer)}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, insurer Insurer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.insurers[insurer.Address]; ok {
		return sentinel.ErrConflict
	}
	s.insurers[insurer.Address] = insurer
	return nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address domain.Principal) (Insurer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	insurer, ok := s.insurers[address]
	if !ok {
		return Insurer{}, sentinel.ErrNotFound
	}
	return insurer, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]Insurer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Insurer, 0, len(s.insurers))
	for _, insurer := range s.insurers {
		out = append(out, insurer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (s *InMemoryStore) Execute(_ context.Context, address domain.Principal, validate func(Insurer) error, mutate func(*Insurer)) (Insurer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	insurer, ok := s.insurers[address]
	if !ok {
		return Insurer{}, sentinel.ErrNotFound
	}
	if err := validate(insurer); err != nil {
		return Insurer{}, err
	}
	mutate(&insurer)
	s.insurers[address] = insurer
	return insurer, nil
}
