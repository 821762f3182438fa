package access

import (
	"context"
	"log/slog"
	"time"

	"vitacare/internal/audit"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages delegation grants. Only the patient themselves may change
// their ledger; there is no administrative override for record access.
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

// Grant lets the caller delegate read access to their records. Granting to a
// delegate that already holds access refreshes the grant in place. An expiry
// in the past is rejected.
func (s *Service) Grant(ctx context.Context, caller, delegate domain.Principal, expiresAt *time.Time) (Grant, error) {
	if caller.IsZero() {
		return Grant{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if delegate.IsZero() {
		return Grant{}, dErrors.New(dErrors.CodeInvalidInput, "delegate is required")
	}
	if delegate == caller {
		return Grant{}, dErrors.New(dErrors.CodeInvalidInput, "patients always hold access to their own records")
	}

	now := requestcontext.Now(ctx)
	if expiresAt != nil && !expiresAt.After(now) {
		return Grant{}, dErrors.New(dErrors.CodeInvalidInput, "expiry must be in the future")
	}

	grant := Grant{
		Patient:   caller,
		Delegate:  delegate,
		GrantedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.store.Save(ctx, grant); err != nil {
		return Grant{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save grant")
	}

	s.logAudit(ctx, caller, delegate, audit.ActionAccessGranted)
	return grant, nil
}

// Revoke withdraws a delegate's access. Revoking access that was never
// granted is a no-op.
func (s *Service) Revoke(ctx context.Context, caller, delegate domain.Principal) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if delegate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "delegate is required")
	}

	if err := s.store.Remove(ctx, caller, delegate); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove grant")
	}

	s.logAudit(ctx, caller, delegate, audit.ActionAccessRevoked)
	return nil
}

// HasAccess reports whether reader may read the patient's records at the
// request time. Patients always have access to their own records; everyone
// else needs an unexpired grant. Any store failure denies.
func (s *Service) HasAccess(ctx context.Context, patient, reader domain.Principal) (bool, error) {
	if reader.IsZero() || patient.IsZero() {
		return false, nil
	}
	if reader == patient {
		return true, nil
	}

	grant, ok, err := s.store.Find(ctx, patient, reader)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up grant")
	}
	if !ok {
		return false, nil
	}
	return grant.ActiveAt(requestcontext.Now(ctx)), nil
}

// ListDelegates returns the caller's live grants. Expired grants stay in the
// store but are filtered out here; the set a delegate sees matches what
// HasAccess would report at the request time.
func (s *Service) ListDelegates(ctx context.Context, caller domain.Principal) ([]Grant, error) {
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	grants, err := s.store.ListByPatient(ctx, caller)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list grants")
	}

	now := requestcontext.Now(ctx)
	live := make([]Grant, 0, len(grants))
	for _, g := range grants {
		if g.ActiveAt(now) {
			live = append(live, g)
		}
	}
	return live, nil
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
