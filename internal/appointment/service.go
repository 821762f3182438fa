package appointment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vitacare/internal/audit"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/platform/sentinel"
	"vitacare/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages the appointment lifecycle. Patients book and cancel their
// own appointments; the named doctor marks them completed.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create books an appointment for the caller with a doctor. The visit time
// must be in the future relative to the request clock.
func (s *Service) Create(ctx context.Context, caller, doctor domain.Principal, scheduledFor time.Time, reason string) (Appointment, error) {
	if doctor.IsZero() {
		return Appointment{}, dErrors.New(dErrors.CodeInvalidInput, "doctor is required")
	}
	if doctor == caller {
		return Appointment{}, dErrors.New(dErrors.CodeInvalidInput, "patient and doctor must differ")
	}

	now := requestcontext.Now(ctx)
	if !scheduledFor.After(now) {
		return Appointment{}, dErrors.New(dErrors.CodeInvalidInput, "appointment time must be in the future")
	}

	appt, err := s.store.Create(ctx, Appointment{
		Patient:      caller,
		Doctor:       doctor,
		ScheduledFor: scheduledFor,
		Reason:       reason,
		Status:       StatusScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return Appointment{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create appointment")
	}

	s.logAudit(ctx, caller, doctor, audit.ActionAppointmentCreated)
	return appt, nil
}

// Get returns an appointment by identifier.
func (s *Service) Get(ctx context.Context, id domain.AppointmentID) (Appointment, error) {
	appt, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Appointment{}, dErrors.New(dErrors.CodeNotFound, "appointment not found")
		}
		return Appointment{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load appointment")
	}
	return appt, nil
}

// Cancel cancels a scheduled appointment. Only the booking patient may
// cancel.
func (s *Service) Cancel(ctx context.Context, caller domain.Principal, id domain.AppointmentID) (Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if appt.Patient != caller {
		return Appointment{}, dErrors.New(dErrors.CodeUnauthorized, "only the booking patient may cancel")
	}

	return s.transition(ctx, id,
		func(a Appointment) error { return a.CanCancel() },
		func(a *Appointment) { a.Status = StatusCanceled },
		caller, appt.Doctor, audit.ActionAppointmentCanceled,
	)
}

// Complete marks a scheduled appointment as completed. Only the named doctor
// may complete it.
func (s *Service) Complete(ctx context.Context, caller domain.Principal, id domain.AppointmentID) (Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if appt.Doctor != caller {
		return Appointment{}, dErrors.New(dErrors.CodeUnauthorized, "only the appointment's doctor may complete it")
	}

	return s.transition(ctx, id,
		func(a Appointment) error { return a.CanComplete() },
		func(a *Appointment) { a.Status = StatusCompleted },
		caller, appt.Patient, audit.ActionAppointmentCompleted,
	)
}

// ListForPatient returns a patient's appointments, oldest first.
func (s *Service) ListForPatient(ctx context.Context, patient domain.Principal) ([]Appointment, error) {
	list, err := s.store.ListByPatient(ctx, patient)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appointments")
	}
	return list, nil
}

// ListForDoctor returns a doctor's appointments, oldest first.
func (s *Service) ListForDoctor(ctx context.Context, doctor domain.Principal) ([]Appointment, error) {
	list, err := s.store.ListByDoctor(ctx, doctor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appointments")
	}
	return list, nil
}

func (s *Service) transition(ctx context.Context, id domain.AppointmentID, validate func(Appointment) error, mutate func(*Appointment), actor, subject domain.Principal, action string) (Appointment, error) {
	at := requestcontext.Now(ctx)
	appt, err := s.store.Execute(ctx, id, validate, func(a *Appointment) {
		mutate(a)
		a.UpdatedAt = at
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Appointment{}, dErrors.New(dErrors.CodeNotFound, "appointment not found")
		}
		if dErrors.HasCode(err, dErrors.CodeInvalidState) {
			return Appointment{}, err
		}
		return Appointment{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update appointment")
	}

	s.logAudit(ctx, actor, subject, action)
	return appt, nil
}

func (s *Service) logAudit(ctx context.Context, actor, subject domain.Principal, action string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"actor", actor.String(),
			"subject", subject.String(),
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Actor:   actor,
		Subject: subject,
		Action:  action,
	})
}
