package hospital

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

// Service manages hospital registration and lifecycle.
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

// Register creates a hospital with the caller as its administrator.
func (s *Service) Register(ctx context.Context, caller domain.Principal, name, city string, specialties []string, capacity uint64) (Hospital, error) {
	h, err := NewHospital(caller, name, city, specialties, capacity, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return Hospital{}, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return Hospital{}, err
	}

	created, err := s.store.Create(ctx, h)
	if err != nil {
		return Hospital{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register hospital")
	}

	s.logAudit(ctx, caller, audit.ActionHospitalRegistered)
	return created, nil
}

// Get returns a hospital by identifier.
func (s *Service) Get(ctx context.Context, id domain.HospitalID) (Hospital, error) {
	h, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Hospital{}, dErrors.New(dErrors.CodeNotFound, "hospital not found")
		}
		return Hospital{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load hospital")
	}
	return h, nil
}

// Deactivate retires an active hospital. Only the hospital's administrator or
// a platform administrator may deactivate it.
func (s *Service) Deactivate(ctx context.Context, caller domain.Principal, id domain.HospitalID) (Hospital, error) {
	return s.manage(ctx, caller, id,
		func(h Hospital) error { return h.CanDeactivate() },
		func(h *Hospital) { h.Active = false },
		audit.ActionHospitalDeactivated,
		"failed to deactivate hospital",
	)
}

// AddSpecialty lists a new department for the hospital. Adding a department
// the hospital already lists is a no-op.
func (s *Service) AddSpecialty(ctx context.Context, caller domain.Principal, id domain.HospitalID, raw string) (Hospital, error) {
	sp, err := NewSpecialty(raw)
	if err != nil {
		return Hospital{}, err
	}
	return s.manage(ctx, caller, id,
		func(Hospital) error { return nil },
		func(h *Hospital) { h.AddSpecialty(sp) },
		audit.ActionHospitalUpdated,
		"failed to add specialty",
	)
}

// UpdateCapacity revises the hospital's bed capacity.
func (s *Service) UpdateCapacity(ctx context.Context, caller domain.Principal, id domain.HospitalID, capacity uint64) (Hospital, error) {
	return s.manage(ctx, caller, id,
		func(Hospital) error { return nil },
		func(h *Hospital) { h.Capacity = capacity },
		audit.ActionHospitalUpdated,
		"failed to update capacity",
	)
}

// TransferAdmin hands the hospital to a new administrator principal.
func (s *Service) TransferAdmin(ctx context.Context, caller domain.Principal, id domain.HospitalID, to domain.Principal) (Hospital, error) {
	return s.manage(ctx, caller, id,
		func(h Hospital) error { return h.CanTransferAdmin(to) },
		func(h *Hospital) { h.Admin = to },
		audit.ActionHospitalUpdated,
		"failed to transfer hospital admin",
	)
}

// manage runs an admin-gated mutation: load, authorize against the hospital's
// administrator, then validate-and-mutate atomically.
func (s *Service) manage(ctx context.Context, caller domain.Principal, id domain.HospitalID, validate func(Hospital) error, mutate func(*Hospital), action, failMsg string) (Hospital, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return Hospital{}, err
	}

	if err := s.gate.Authorize(ctx, caller, h.Admin, authz.OpManageHospital); err != nil {
		return Hospital{}, err
	}

	at := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, id, validate, func(h *Hospital) {
		mutate(h)
		h.UpdatedAt = at
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Hospital{}, dErrors.New(dErrors.CodeNotFound, "hospital not found")
		}
		var de *dErrors.DomainError
		if errors.As(err, &de) {
			return Hospital{}, err
		}
		return Hospital{}, dErrors.Wrap(err, dErrors.CodeInternal, failMsg)
	}

	s.logAudit(ctx, caller, action)
	return updated, nil
}

// ListBySpecialty returns hospitals offering the given department.
func (s *Service) ListBySpecialty(ctx context.Context, raw string) ([]Hospital, error) {
	sp, err := NewSpecialty(raw)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListBySpecialty(ctx, sp)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list hospitals")
	}
	return list, nil
}

// ListActive returns every hospital that has not been retired.
func (s *Service) ListActive(ctx context.Context) ([]Hospital, error) {
	list, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list hospitals")
	}
	return list, nil
}

// Stats returns registry totals.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute stats")
	}
	return stats, nil
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
		Actor:  actor,
		Action: action,
	})
}
