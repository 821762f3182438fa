package patient

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists patient profiles. CreateIfAbsent returns
// sentinel.ErrConflict when the address is taken.
type Store interface {
	CreateIfAbsent(ctx context.Context, patient Patient) error
	FindByAddress(ctx context.Context, address domain.Principal) (Patient, error)
	Update(ctx context.Context, patient Patient) error
	Count(ctx context.Context) (int, error)
}
