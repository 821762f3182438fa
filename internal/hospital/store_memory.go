package hospital

import (
	"context"
	"sort"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
// A specialty index is maintained alongside the primary map so lookups by
// department stay cheap.
type InMemoryStore struct {
	mu          sync.RWMutex
	hospitals   map[domain.HospitalID]Hospital
	bySpecialty map[Specialty][]domain.HospitalID
	nextID      domain.HospitalID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		hospitals:   make(map[domain.HospitalID]Hospital),
		bySpecialty: make(map[Specialty][]domain.HospitalID),
		nextID:      1,
	}
}

func (s *InMemoryStore) Create(_ context.Context, hospital Hospital) (Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hospital.ID = s.nextID
	s.nextID++
	s.hospitals[hospital.ID] = hospital
	for _, sp := range hospital.Specialties {
		s.bySpecialty[sp] = append(s.bySpecialty[sp], hospital.ID)
	}
	return hospital, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.HospitalID) (Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hospital, ok := s.hospitals[id]
	if !ok {
		return Hospital{}, sentinel.ErrNotFound
	}
	return hospital, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Hospital, 0, len(s.hospitals))
	for _, h := range s.hospitals {
		if h.Active {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListBySpecialty(_ context.Context, sp Specialty) ([]Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.bySpecialty[sp]
	out := make([]Hospital, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.hospitals[id])
	}
	return out, nil
}

func (s *InMemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{
		Total:       len(s.hospitals),
		BySpecialty: make(map[Specialty]int),
	}
	for _, h := range s.hospitals {
		if h.Active {
			stats.Active++
		}
		stats.TotalCapacity += h.Capacity
		for _, sp := range h.Specialties {
			stats.BySpecialty[sp]++
		}
	}
	return stats, nil
}

func (s *InMemoryStore) Execute(_ context.Context, id domain.HospitalID, validate func(Hospital) error, mutate func(*Hospital)) (Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hospital, ok := s.hospitals[id]
	if !ok {
		return Hospital{}, sentinel.ErrNotFound
	}
	if err := validate(hospital); err != nil {
		return Hospital{}, err
	}
	before := hospital.Specialties
	mutate(&hospital)
	s.hospitals[id] = hospital
	s.reindex(id, before, hospital.Specialties)
	return hospital, nil
}

// reindex reconciles the specialty index after a mutation changed the
// hospital's department list.
func (s *InMemoryStore) reindex(id domain.HospitalID, before, after []Specialty) {
	if len(before) == len(after) {
		return
	}
	was := make(map[Specialty]struct{}, len(before))
	for _, sp := range before {
		was[sp] = struct{}{}
	}
	for _, sp := range after {
		if _, ok := was[sp]; !ok {
			s.bySpecialty[sp] = append(s.bySpecialty[sp], id)
		}
	}
}
