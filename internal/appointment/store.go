package appointment

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists appointments. Create assigns the next identifier;
// identifiers start at one.
type Store interface {
	Create(ctx context.Context, appt Appointment) (Appointment, error)
	FindByID(ctx context.Context, id domain.AppointmentID) (Appointment, error)
	ListByPatient(ctx context.Context, patient domain.Principal) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctor domain.Principal) ([]Appointment, error)

	// Execute runs validate then mutate against the stored appointment
	// atomically.
	Execute(ctx context.Context, id domain.AppointmentID, validate func(Appointment) error, mutate func(*Appointment)) (Appointment, error)
}
