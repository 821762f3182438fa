package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vitacare/internal/audit"
	"vitacare/internal/authz"
	"vitacare/internal/claims"
	"vitacare/internal/claims/metrics"
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

// Service orchestrates the claim lifecycle. Submission is open to any
// authenticated patient; decisions go through the authorization gate.
type Service struct {
	store          claims.Store
	gate           Authorizer
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store claims.Store, gate Authorizer, opts ...Option) *Service {
	s := &Service{
		store:  store,
		gate:   gate,
		tracer: otel.Tracer("vitacare/claims"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files a new claim for the caller. The claim starts pending and keeps
// the identifier the store assigned.
func (s *Service) Submit(ctx context.Context, caller domain.Principal, serviceID string, cost uint64) (claims.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Submit")
	defer span.End()
	start := time.Now()

	serviceID = strings.TrimSpace(serviceID)
	if serviceID == "" {
		return claims.Claim{}, dErrors.New(dErrors.CodeInvalidInput, "service_id is required")
	}
	if cost == 0 {
		return claims.Claim{}, dErrors.New(dErrors.CodeInvalidInput, "cost must be greater than zero")
	}

	claim, err := s.store.Create(ctx, claims.Claim{
		Patient:     caller,
		ServiceID:   serviceID,
		Cost:        cost,
		Status:      claims.StatusPending,
		SubmittedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return claims.Claim{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create claim")
	}
	span.SetAttributes(attribute.Int64("claim.id", int64(claim.ID)))

	s.logAudit(ctx, caller, caller, audit.ActionClaimSubmitted, serviceID)
	if s.metrics != nil {
		s.metrics.IncrementSubmitted()
		s.metrics.ObserveSubmit(start)
	}
	return claim, nil
}

// Process settles a pending claim. The decision is recorded together with the
// caller that made it; a claim that already carries a decision is rejected
// with a conflict, never overwritten.
func (s *Service) Process(ctx context.Context, caller domain.Principal, id domain.ClaimID, approve bool) (claims.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Process",
		trace.WithAttributes(attribute.Int64("claim.id", int64(id))))
	defer span.End()
	start := time.Now()

	if _, err := s.store.FindByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return claims.Claim{}, dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return claims.Claim{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim")
	}

	if err := s.gate.Authorize(ctx, caller, domain.Principal(""), authz.OpProcessClaim); err != nil {
		return claims.Claim{}, err
	}

	decidedAt := requestcontext.Now(ctx)
	claim, err := s.store.Execute(ctx, id,
		func(c claims.Claim) error { return c.CanProcess() },
		func(c *claims.Claim) { c.ApplyDecision(caller, approve, decidedAt) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return claims.Claim{}, dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		if dErrors.HasCode(err, dErrors.CodeInvalidState) {
			return claims.Claim{}, err
		}
		return claims.Claim{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to process claim")
	}

	s.logAudit(ctx, caller, claim.Patient, audit.ActionClaimProcessed, string(claim.Status))
	if s.metrics != nil {
		s.metrics.IncrementProcessed(string(claim.Status))
		s.metrics.ObserveProcess(start)
	}
	return claim, nil
}

// GetStatus returns only the lifecycle state of a claim.
func (s *Service) GetStatus(ctx context.Context, id domain.ClaimID) (claims.ClaimStatus, error) {
	claim, err := s.GetDetails(ctx, id)
	if err != nil {
		return "", err
	}
	return claim.Status, nil
}

// GetDetails returns the full claim.
func (s *Service) GetDetails(ctx context.Context, id domain.ClaimID) (claims.Claim, error) {
	claim, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return claims.Claim{}, dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return claims.Claim{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim")
	}
	return claim, nil
}

// ListForPatient returns every claim a patient has filed, oldest first.
func (s *Service) ListForPatient(ctx context.Context, patient domain.Principal) ([]claims.Claim, error) {
	list, err := s.store.ListByPatient(ctx, patient)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list claims")
	}
	return list, nil
}

func (s *Service) logAudit(ctx context.Context, actor, subject domain.Principal, action, detail string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"actor", actor.String(),
			"subject", subject.String(),
			"detail", detail,
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
		Detail:  detail,
	})
}
