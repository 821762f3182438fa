package doctor

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists doctor profiles.
type Store interface {
	CreateIfAbsent(ctx context.Context, doctor Doctor) error
	FindByAddress(ctx context.Context, address domain.Principal) (Doctor, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]Doctor, error)

	// Execute runs validate then mutate against the stored doctor atomically.
	Execute(ctx context.Context, address domain.Principal, validate func(Doctor) error, mutate func(*Doctor)) (Doctor, error)
}
