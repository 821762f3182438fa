package insurer

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists insurer profiles.
type Store interface {
	CreateIfAbsent(ctx context.Context, insurer Insurer) error
	FindByAddress(ctx context.Context, address domain.Principal) (Insurer, error)
	ListAll(ctx context.Context) ([]Insurer, error)

	// Execute runs validate then mutate against the stored insurer atomically.
	Execute(ctx context.Context, address domain.Principal, validate func(Insurer) error, mutate func(*Insurer)) (Insurer, error)
}
