package institution

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists institution profiles.
type Store interface {
	CreateIfAbsent(ctx context.Context, institution Institution) error
	FindByAddress(ctx context.Context, address domain.Principal) (Institution, error)

	// Execute runs validate then mutate against the stored institution
	// atomically.
	Execute(ctx context.Context, address domain.Principal, validate func(Institution) error, mutate func(*Institution)) (Institution, error)
}
