package access

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists delegation grants. Save overwrites any existing grant for
// the same patient and delegate pair; Remove of an absent grant is a no-op.
type Store interface {
	Save(ctx context.Context, grant Grant) error
	Remove(ctx context.Context, patient, delegate domain.Principal) error
	Find(ctx context.Context, patient, delegate domain.Principal) (Grant, bool, error)
	ListByPatient(ctx context.Context, patient domain.Principal) ([]Grant, error)
}
