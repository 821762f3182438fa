package identity

import (
	"context"
	"sort"
	"sync"

	"vitacare/pkg/domain"
)

// InMemoryRoleStore keeps the initial implementation lightweight and
// testable.
type InMemoryRoleStore struct {
	mu      sync.RWMutex
	members map[domain.Role]map[domain.Principal]struct{}
}

func NewInMemoryRoleStore() *InMemoryRoleStore {
	return &InMemoryRoleStore{members: make(map[domain.Role]map[domain.Principal]struct{})}
}

func (s *InMemoryRoleStore) Grant(_ context.Context, principal domain.Principal, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.members[role]
	if !ok {
		set = make(map[domain.Principal]struct{})
		s.members[role] = set
	}
	set[principal] = struct{}{}
	return nil
}

func (s *InMemoryRoleStore) Revoke(_ context.Context, principal domain.Principal, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[role], principal)
	return nil
}

func (s *InMemoryRoleStore) Has(_ context.Context, principal domain.Principal, role domain.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[role][principal]
	return ok, nil
}

func (s *InMemoryRoleStore) Members(_ context.Context, role domain.Role) ([]domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Principal, 0, len(s.members[role]))
	for p := range s.members[role] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
