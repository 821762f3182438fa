package doctor

import (
	"context"
	"errors"
	"log/slog"

	"vitacare/internal/audit"
	"vitacare/internal/authz"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/platform/sentinel"
	"vitacare/pkg/requestcontext"
)

// Authorizer is the slice of the authorization gate the service needs.
type Authorizer interface {
	Authorize(ctx context.Context, caller, owner domain.Principal, op authz.Operation) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages doctor registration and verification.
type Service struct {
	store          Store
	gate           Authorizer
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
func New(store Store, gate Authorizer, opts ...Option) *Service {
	s := &Service{store: store, gate: gate}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the caller's doctor profile, unverified.
func (s *Service) Register(ctx context.Context, caller domain.Principal, name, specialty, licenseID string) (Doctor, error) {
	d, err := NewDoctor(caller, name, specialty, licenseID, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return Doctor{}, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return Doctor{}, err
	}

	if err := s.store.CreateIfAbsent(ctx, d); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Doctor{}, dErrors.New(dErrors.CodeConflict, "doctor is already registered")
		}
		return Doctor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register doctor")
	}

	s.logAudit(ctx, caller, caller, audit.ActionDoctorRegistered)
	return d, nil
}

// Get returns a doctor profile by address.
func (s *Service) Get(ctx context.Context, address domain.Principal) (Doctor, error) {
	d, err := s.store.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Doctor{}, dErrors.New(dErrors.CodeNotFound, "doctor not found")
		}
		return Doctor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load doctor")
	}
	return d, nil
}

// Update lets a doctor revise their own profile. Empty fields keep their
// current value; verification state is untouched.
func (s *Service) Update(ctx context.Context, caller domain.Principal, name, specialty, licenseID string) (Doctor, error) {
	if caller.IsZero() {
		return Doctor{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}

	at := requestcontext.Now(ctx)
	d, err := s.store.Execute(ctx, caller,
		func(Doctor) error { return nil },
		func(d *Doctor) { d.ApplyProfileUpdate(name, specialty, licenseID, at) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Doctor{}, dErrors.New(dErrors.CodeNotFound, "doctor not found")
		}
		return Doctor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update doctor")
	}

	s.logAudit(ctx, caller, caller, audit.ActionDoctorUpdated)
	return d, nil
}

// Verify marks a doctor as vouched for. Only a verified institution or an
// administrator may verify, and a doctor is verified at most once.
func (s *Service) Verify(ctx context.Context, caller, address domain.Principal) (Doctor, error) {
	if _, err := s.Get(ctx, address); err != nil {
		return Doctor{}, err
	}

	if err := s.gate.Authorize(ctx, caller, domain.Principal(""), authz.OpVerifyDoctor); err != nil {
		return Doctor{}, err
	}

	at := requestcontext.Now(ctx)
	d, err := s.store.Execute(ctx, address,
		func(d Doctor) error { return d.CanVerify() },
		func(d *Doctor) { d.ApplyVerification(caller, at) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Doctor{}, dErrors.New(dErrors.CodeNotFound, "doctor not found")
		}
		if dErrors.HasCode(err, dErrors.CodeInvalidState) {
			return Doctor{}, err
		}
		return Doctor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify doctor")
	}

	s.logAudit(ctx, caller, address, audit.ActionDoctorVerified)
	return d, nil
}

// ListBySpecialty returns doctors practicing the given specialty.
func (s *Service) ListBySpecialty(ctx context.Context, specialty string) ([]Doctor, error) {
	list, err := s.store.ListBySpecialty(ctx, specialty)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list doctors")
	}
	return list, nil
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
