package records

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists record entries. Append assigns the patient's next sequence
// number atomically.
type Store interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	ListByPatient(ctx context.Context, patient domain.Principal) ([]Entry, error)
	CountByPatient(ctx context.Context, patient domain.Principal) (uint64, error)
}
