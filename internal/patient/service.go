package patient

import (
	"context"
	"errors"
	"log/slog"

	"vitacare/internal/audit"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/platform/sentinel"
	"vitacare/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages patient registration and profile updates.
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

// Register creates the caller's patient profile. An address registers at most
// once.
func (s *Service) Register(ctx context.Context, caller domain.Principal, name, dateOfBirth, bloodType, contact string) (Patient, error) {
	p, err := NewPatient(caller, name, dateOfBirth, bloodType, contact, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return Patient{}, dErrors.New(dErrors.CodeValidation, "patient name is required")
		}
		return Patient{}, err
	}

	if err := s.store.CreateIfAbsent(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Patient{}, dErrors.New(dErrors.CodeConflict, "patient is already registered")
		}
		return Patient{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register patient")
	}

	s.logAudit(ctx, caller, audit.ActionPatientRegistered)
	return p, nil
}

// Get returns a patient profile by address.
func (s *Service) Get(ctx context.Context, address domain.Principal) (Patient, error) {
	p, err := s.store.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Patient{}, dErrors.New(dErrors.CodeNotFound, "patient not found")
		}
		return Patient{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load patient")
	}
	return p, nil
}

// Update replaces the caller's own profile fields. Empty fields keep their
// current value.
func (s *Service) Update(ctx context.Context, caller domain.Principal, name, dateOfBirth, bloodType, contact string) (Patient, error) {
	current, err := s.Get(ctx, caller)
	if err != nil {
		return Patient{}, err
	}

	if name == "" {
		name = current.Name
	}
	if dateOfBirth == "" {
		dateOfBirth = current.DateOfBirth
	}
	if bloodType == "" {
		bloodType = current.BloodType
	}
	if contact == "" {
		contact = current.Contact
	}

	updated, err := NewPatient(caller, name, dateOfBirth, bloodType, contact, current.RegisteredAt)
	if err != nil {
		return Patient{}, err
	}
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, updated); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Patient{}, dErrors.New(dErrors.CodeNotFound, "patient not found")
		}
		return Patient{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update patient")
	}

	s.logAudit(ctx, caller, audit.ActionPatientUpdated)
	return updated, nil
}

// Count returns the number of registered patients.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count patients")
	}
	return count, nil
}

func (s *Service) logAudit(ctx context.Context, actor domain.Principal, action string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"actor", actor.String(),
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Actor:   actor,
		Subject: actor,
		Action:  action,
	})
}
