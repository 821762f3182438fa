package claims

import (
	"context"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
// The single mutex also serializes Execute, so concurrent decisions on the
// same claim cannot interleave.
type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[domain.ClaimID]Claim
	nextID domain.ClaimID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{claims: make(map[domain.ClaimID]Claim)}
}

func (s *InMemoryStore) Create(_ context.Context, claim Claim) (Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim.ID = s.nextID
	s.nextID++
	s.claims[claim.ID] = claim
	return claim, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ClaimID) (Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.claims[id]
	if !ok {
		return Claim{}, sentinel.ErrNotFound
	}
	return claim, nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patient domain.Principal) ([]Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Claim
	for id := domain.ClaimID(0); id < s.nextID; id++ {
		if claim, ok := s.claims[id]; ok && claim.Patient == patient {
			out = append(out, claim)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Execute(_ context.Context, id domain.ClaimID, validate func(Claim) error, mutate func(*Claim)) (Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.claims[id]
	if !ok {
		return Claim{}, sentinel.ErrNotFound
	}
	if err := validate(claim); err != nil {
		return Claim{}, err
	}
	mutate(&claim)
	s.claims[id] = claim
	return claim, nil
}
