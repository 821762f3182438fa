package appointment

import (
	"context"
	"sync"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
type InMemoryStore struct {
	mu           sync.RWMutex
	appointments map[domain.AppointmentID]Appointment
	nextID       domain.AppointmentID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		appointments: make(map[domain.AppointmentID]Appointment),
		nextID:       1,
	}
}

func (s *InMemoryStore) Create(_ context.Context, appt Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt.ID = s.nextID
	s.nextID++
	s.appointments[appt.ID] = appt
	return appt, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.AppointmentID) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appt, ok := s.appointments[id]
	if !ok {
		return Appointment{}, sentinel.ErrNotFound
	}
	return appt, nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patient domain.Principal) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Appointment
	for id := domain.AppointmentID(1); id < s.nextID; id++ {
		if appt, ok := s.appointments[id]; ok && appt.Patient == patient {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByDoctor(_ context.Context, doctor domain.Principal) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Appointment
	for id := domain.AppointmentID(1); id < s.nextID; id++ {
		if appt, ok := s.appointments[id]; ok && appt.Doctor == doctor {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Execute(_ context.Context, id domain.AppointmentID, validate func(Appointment) error, mutate func(*Appointment)) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return Appointment{}, sentinel.ErrNotFound
	}
	if err := validate(appt); err != nil {
		return Appointment{}, err
	}
	mutate(&appt)
	s.appointments[id] = appt
	return appt, nil
}
