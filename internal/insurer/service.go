package insurer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"vitacare/internal/audit"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/platform/sentinel"
	"vitacare/pkg/requestcontext"
)

// RoleGranter is the slice of the identity service verification uses to hand
// out the verified-insurer role.
type RoleGranter interface {
	GrantRole(ctx context.Context, caller, subject domain.Principal, role domain.Role) error
	WithdrawRole(ctx context.Context, subject domain.Principal, role domain.Role) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages insurer registration, verification and lifecycle. Only the
// insurer itself may change its policies and reviewers; verification and
// reactivation are administrator actions.
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

// Register creates the caller's insurer profile, active but unverified.
func (s *Service) Register(ctx context.Context, caller domain.Principal, name string) (Insurer, error) {
	ins, err := NewInsurer(caller, name, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return Insurer{}, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return Insurer{}, err
	}

	if err := s.store.CreateIfAbsent(ctx, ins); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Insurer{}, dErrors.New(dErrors.CodeConflict, "insurer is already registered")
		}
		return Insurer{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register insurer")
	}

	s.logAudit(ctx, caller, caller, audit.ActionInsurerRegistered)
	return ins, nil
}

// Get returns an insurer profile by address.
func (s *Service) Get(ctx context.Context, address domain.Principal) (Insurer, error) {
	ins, err := s.store.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Insurer{}, dErrors.New(dErrors.CodeNotFound, "insurer not found")
		}
		return Insurer{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load insurer")
	}
	return ins, nil
}

// Verify marks an insurer verified and grants it the verified-insurer role.
// The role grant enforces that the caller is an administrator.
func (s *Service) Verify(ctx context.Context, caller, address domain.Principal) (Insurer, error) {
	ins, err := s.Get(ctx, address)
	if err != nil {
		return Insurer{}, err
	}
	if err := ins.CanVerify(); err != nil {
		return Insurer{}, err
	}

	if err := s.roles.GrantRole(ctx, caller, address, domain.RoleVerifiedInsurer); err != nil {
		return Insurer{}, err
	}

	at := requestcontext.Now(ctx)
	updated, err := s.execute(ctx, address,
		func(i Insurer) error { return i.CanVerify() },
		func(i *Insurer) { i.ApplyVerification(caller, at) },
		"failed to verify insurer",
	)
	if err != nil {
		return Insurer{}, err
	}

	s.logAudit(ctx, caller, address, audit.ActionInsurerVerified)
	return updated, nil
}

// Update lets an insurer revise its own profile. Empty fields keep their
// current value.
func (s *Service) Update(ctx context.Context, caller domain.Principal, name string) (Insurer, error) {
	if caller.IsZero() {
		return Insurer{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}

	updated, err := s.execute(ctx, caller,
		func(Insurer) error { return nil },
		func(i *Insurer) { i.ApplyProfileUpdate(name) },
		"failed to update insurer",
	)
	if err != nil {
		return Insurer{}, err
	}

	s.logAudit(ctx, caller, caller, audit.ActionInsurerUpdated)
	return updated, nil
}

// ListAll returns every registered insurer.
func (s *Service) ListAll(ctx context.Context) ([]Insurer, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list insurers")
	}
	return list, nil
}

// AddPolicy publishes a policy under the caller's own profile.
func (s *Service) AddPolicy(ctx context.Context, caller domain.Principal, code, name string, coverage uint64) (Insurer, error) {
	policy, err := NewPolicy(code, name, coverage)
	if err != nil {
		return Insurer{}, err
	}

	return s.execute(ctx, caller,
		func(i Insurer) error {
			if i.HasPolicy(policy.Code) {
				return dErrors.New(dErrors.CodeConflict, "policy code already exists")
			}
			return nil
		},
		func(i *Insurer) { i.Policies = append(i.Policies, policy) },
		"failed to add policy",
	)
}

// UpdatePolicy revises the name or coverage of an existing policy. The code
// identifies the policy and cannot change.
func (s *Service) UpdatePolicy(ctx context.Context, caller domain.Principal, code, name string, coverage uint64) (Insurer, error) {
	policy, err := NewPolicy(code, name, coverage)
	if err != nil {
		return Insurer{}, err
	}

	return s.execute(ctx, caller,
		func(i Insurer) error {
			if !i.HasPolicy(policy.Code) {
				return dErrors.New(dErrors.CodeNotFound, "policy not found")
			}
			return nil
		},
		func(i *Insurer) {
			for idx, p := range i.Policies {
				if strings.EqualFold(p.Code, policy.Code) {
					i.Policies[idx].Name = policy.Name
					i.Policies[idx].Coverage = policy.Coverage
					return
				}
			}
		},
		"failed to update policy",
	)
}

// AddReviewer authorizes a principal to review claims on the caller's
// behalf. Adding an existing reviewer is a no-op.
func (s *Service) AddReviewer(ctx context.Context, caller, reviewer domain.Principal) (Insurer, error) {
	if reviewer.IsZero() {
		return Insurer{}, dErrors.New(dErrors.CodeInvalidInput, "reviewer is required")
	}
	return s.execute(ctx, caller,
		func(Insurer) error { return nil },
		func(i *Insurer) {
			if !i.HasReviewer(reviewer) {
				i.Reviewers = append(i.Reviewers, reviewer)
			}
		},
		"failed to add reviewer",
	)
}

// RemoveReviewer withdraws a reviewer. Removing an absent reviewer is a
// no-op.
func (s *Service) RemoveReviewer(ctx context.Context, caller, reviewer domain.Principal) (Insurer, error) {
	return s.execute(ctx, caller,
		func(Insurer) error { return nil },
		func(i *Insurer) {
			kept := i.Reviewers[:0]
			for _, r := range i.Reviewers {
				if r != reviewer {
					kept = append(kept, r)
				}
			}
			i.Reviewers = kept
		},
		"failed to remove reviewer",
	)
}

// Deactivate suspends the caller's own insurer profile. Verification and the
// verified-insurer role are withdrawn, so a suspended insurer cannot settle
// claims and must be reverified after reactivation.
func (s *Service) Deactivate(ctx context.Context, caller domain.Principal) (Insurer, error) {
	ins, err := s.Get(ctx, caller)
	if err != nil {
		return Insurer{}, err
	}
	if err := ins.CanDeactivate(); err != nil {
		return Insurer{}, err
	}

	// The role comes off first; a withdrawal failure leaves the profile
	// active, never a suspended insurer holding the role.
	if err := s.roles.WithdrawRole(ctx, caller, domain.RoleVerifiedInsurer); err != nil {
		return Insurer{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw verified-insurer role")
	}

	return s.execute(ctx, caller,
		func(i Insurer) error { return i.CanDeactivate() },
		func(i *Insurer) {
			i.Active = false
			i.Verified = false
			i.VerifiedBy = ""
			i.VerifiedAt = nil
		},
		"failed to deactivate insurer",
	)
}

// Reactivate restores a suspended insurer. Reverification is required before
// it can process claims again, so no role is granted here.
func (s *Service) Reactivate(ctx context.Context, caller domain.Principal) (Insurer, error) {
	return s.execute(ctx, caller,
		func(i Insurer) error { return i.CanReactivate() },
		func(i *Insurer) { i.Active = true },
		"failed to reactivate insurer",
	)
}

func (s *Service) execute(ctx context.Context, address domain.Principal, validate func(Insurer) error, mutate func(*Insurer), failMsg string) (Insurer, error) {
	at := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, address, validate, func(i *Insurer) {
		mutate(i)
		i.UpdatedAt = at
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Insurer{}, dErrors.New(dErrors.CodeNotFound, "insurer not found")
		}
		var de *dErrors.DomainError
		if errors.As(err, &de) {
			return Insurer{}, err
		}
		return Insurer{}, dErrors.Wrap(err, dErrors.CodeInternal, failMsg)
	}
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
