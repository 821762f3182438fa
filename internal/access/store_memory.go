package access

import (
	"context"
	"sort"
	"sync"

	"vitacare/pkg/domain"
)

type grantKey struct {
	patient  domain.Principal
	delegate domain.Principal
}

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[grantKey]Grant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{grants: make(map[grantKey]Grant)}
}

func (s *InMemoryStore) Save(_ context.Context, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey{grant.Patient, grant.Delegate}] = grant
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, patient, delegate domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{patient, delegate})
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, patient, delegate domain.Principal) (Grant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[grantKey{patient, delegate}]
	return grant, ok, nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patient domain.Principal) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Grant
	for key, grant := range s.grants {
		if key.patient == patient {
			out = append(out, grant)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Delegate < out[j].Delegate })
	return out, nil
}
