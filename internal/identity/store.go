// Package identity tracks which roles a principal holds. Role membership is
// the backbone of authorization: verification workflows grant roles, and the
// authorization gate consults them on every privileged operation.
package identity

import (
	"context"

	"vitacare/pkg/domain"
)

// RoleStore persists role membership. Implementations must be safe for
// concurrent use.
type RoleStore interface {
	Grant(ctx context.Context, principal domain.Principal, role domain.Role) error
	Revoke(ctx context.Context, principal domain.Principal, role domain.Role) error
	Has(ctx context.Context, principal domain.Principal, role domain.Role) (bool, error)
	Members(ctx context.Context, role domain.Role) ([]domain.Principal, error)
}
