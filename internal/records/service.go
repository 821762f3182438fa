package records

import (
	"context"
	"log/slog"
	"strings"

	"vitacare/internal/audit"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

// AccessChecker is the slice of the delegation ledger the vault consults.
type AccessChecker interface {
	HasAccess(ctx context.Context, patient, reader domain.Principal) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service guards the record vault. Both writes and reads require the caller
// to hold access to the patient's records.
type Service struct {
	store          Store
	access         AccessChecker
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
func New(store Store, access AccessChecker, opts ...Option) *Service {
	s := &Service{store: store, access: access}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a record to a patient's history. The caller must be the
// patient or hold an active grant from them.
func (s *Service) Add(ctx context.Context, caller, patient domain.Principal, category, description string) (Entry, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Entry{}, dErrors.New(dErrors.CodeInvalidInput, "description is required")
	}

	if err := s.requireAccess(ctx, patient, caller); err != nil {
		return Entry{}, err
	}

	entry, err := s.store.Append(ctx, Entry{
		Patient:     patient,
		Author:      caller,
		Category:    strings.TrimSpace(category),
		Description: description,
		CreatedAt:   requestcontext.Now(ctx),
	})
	if err != nil {
		return Entry{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append record")
	}

	s.logAudit(ctx, caller, patient, audit.ActionRecordAdded)
	return entry, nil
}

// List returns a patient's full history in sequence order. Requires access.
func (s *Service) List(ctx context.Context, caller, patient domain.Principal) ([]Entry, error) {
	if err := s.requireAccess(ctx, patient, caller); err != nil {
		return nil, err
	}
	entries, err := s.store.ListByPatient(ctx, patient)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	return entries, nil
}

// Count returns the number of records in a patient's history. Requires
// access.
func (s *Service) Count(ctx context.Context, caller, patient domain.Principal) (uint64, error) {
	if err := s.requireAccess(ctx, patient, caller); err != nil {
		return 0, err
	}
	count, err := s.store.CountByPatient(ctx, patient)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count records")
	}
	return count, nil
}

func (s *Service) requireAccess(ctx context.Context, patient, reader domain.Principal) error {
	if patient.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "patient is required")
	}
	ok, err := s.access.HasAccess(ctx, patient, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "access check failed")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold access to this patient's records")
	}
	return nil
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
