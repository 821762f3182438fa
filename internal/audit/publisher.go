package audit

import (
	"context"

	"github.com/google/uuid"

	"vitacare/pkg/domain"
	"vitacare/pkg/requestcontext"
)

// Publisher is the sink domain services emit to. Emission is fire-and-forget
// from the domain's perspective: a failing sink must never fail the operation
// that produced the event.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists events for querying; the in-memory implementation backs
// tests and single-node deployments.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor domain.Principal) ([]Event, error)
}

// Service captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Emit stamps missing envelope fields from the request context and appends
// the event.
func (s *Service) Emit(ctx context.Context, event Event) error {
	stamp(ctx, &event)
	return s.store.Append(ctx, event)
}

// List returns every event recorded for an actor, oldest first.
func (s *Service) List(ctx context.Context, actor domain.Principal) ([]Event, error) {
	return s.store.ListByActor(ctx, actor)
}

func stamp(ctx context.Context, event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}
}
