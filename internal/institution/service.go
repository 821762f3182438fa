package institution

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

// RoleGranter is the slice of the identity service verification uses to hand
// out the verified-institution role.
type RoleGranter interface {
	GrantRole(ctx context.Context, caller, subject domain.Principal, role domain.Role) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages institution registration and verification. Verification is
// the admin-gated step that unlocks doctor vouching, so the role grant and
// the profile update happen together.
type Service struct {
	store          Store
	roles          RoleGranter
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
func New(store Store, roles RoleGranter, opts ...Option) *Service {
	s := &Service{store: store, roles: roles}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the caller's institution profile, unverified.
func (s *Service) Register(ctx context.Context, caller domain.Principal, name, kind string) (Institution, error) {
	inst, err := NewInstitution(caller, name, kind, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return Institution{}, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return Institution{}, err
	}

	if err := s.store.CreateIfAbsent(ctx, inst); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Institution{}, dErrors.New(dErrors.CodeConflict, "institution is already registered")
		}
		return Institution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register institution")
	}

	s.logAudit(ctx, caller, caller, audit.ActionInstitutionRegistered)
	return inst, nil
}

// Get returns an institution profile by address.
func (s *Service) Get(ctx context.Context, address domain.Principal) (Institution, error) {
	inst, err := s.store.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Institution{}, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return Institution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}
	return inst, nil
}

// Update lets an institution revise its own profile. Empty fields keep their
// current value; verification state is untouched.
func (s *Service) Update(ctx context.Context, caller domain.Principal, name, kind string) (Institution, error) {
	if caller.IsZero() {
		return Institution{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}

	at := requestcontext.Now(ctx)
	inst, err := s.store.Execute(ctx, caller,
		func(Institution) error { return nil },
		func(i *Institution) { i.ApplyProfileUpdate(name, kind, at) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Institution{}, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return Institution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update institution")
	}

	s.logAudit(ctx, caller, caller, audit.ActionInstitutionUpdated)
	return inst, nil
}

// Verify marks an institution verified and grants it the verified-institution
// role. The role grant enforces that the caller is an administrator, so the
// grant runs before the profile mutation.
func (s *Service) Verify(ctx context.Context, caller, address domain.Principal) (Institution, error) {
	inst, err := s.Get(ctx, address)
	if err != nil {
		return Institution{}, err
	}
	if err := inst.CanVerify(); err != nil {
		return Institution{}, err
	}

	if err := s.roles.GrantRole(ctx, caller, address, domain.RoleVerifiedInstitution); err != nil {
		return Institution{}, err
	}

	at := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, address,
		func(i Institution) error { return i.CanVerify() },
		func(i *Institution) { i.ApplyVerification(caller, at) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Institution{}, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		if dErrors.HasCode(err, dErrors.CodeInvalidState) {
			return Institution{}, err
		}
		return Institution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify institution")
	}

	s.logAudit(ctx, caller, address, audit.ActionInstitutionVerified)
	return updated, nil
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
