package doctor

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu      sync.RWMutex
	doctors map[domain.Principal]Doctor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{doctors: make(map[domain.Principal]Doctor)}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, doctor Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[doctor.Address]; ok {
		return sentinel.ErrConflict
	}
	s.doctors[doctor.Address] = doctor
	return nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address domain.Principal) (Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doctor, ok := s.doctors[address]
	if !ok {
		return Doctor{}, sentinel.ErrNotFound
	}
	return doctor, nil
}

func (s *InMemoryStore) ListBySpecialty(_ context.Context, specialty string) ([]Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Doctor
	for _, doctor := range s.doctors {
		if strings.EqualFold(doctor.Specialty, specialty) {
			out = append(out, doctor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (s *InMemoryStore) Execute(_ context.Context, address domain.Principal, validate func(Doctor) error, mutate func(*Doctor)) (Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doctor, ok := s.doctors[address]
	if !ok {
		return Doctor{}, sentinel.ErrNotFound
	}
	if err := validate(doctor); err != nil {
		return Doctor{}, err
	}
	mutate(&doctor)
	s.doctors[address] = doctor
	return doctor, nil
}
