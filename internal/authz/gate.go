// Package authz decides whether a caller may perform an operation on a
// resource. Decisions are fail-closed: any doubt, including a role-store
// error, denies the request.
package authz

import (
	"context"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Operation names a privileged action for authorization purposes.
type Operation string

const (
	OpProcessClaim    Operation = "claims.process"
	OpVerifyDoctor    Operation = "doctor.verify"
	OpVerifyInsurer   Operation = "insurer.verify"
	OpVerifyInstitute Operation = "institution.verify"
	OpManageHospital  Operation = "hospital.manage"
)

// RoleChecker is the slice of the identity service the gate needs.
type RoleChecker interface {
	HasRole(ctx context.Context, principal domain.Principal, role domain.Role) (bool, error)
}

// Gate evaluates authorization rules in precedence order: resource owner
// first, then platform admin, then operation-specific roles.
type Gate struct {
	roles RoleChecker
}

func NewGate(roles RoleChecker) *Gate {
	return &Gate{roles: roles}
}

// Authorize allows the call when the caller owns the resource, holds the
// admin role, or holds a role the operation accepts. A zero owner means the
// operation has no owner and only role checks apply.
func (g *Gate) Authorize(ctx context.Context, caller, owner domain.Principal, op Operation) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if !owner.IsZero() && caller == owner {
		return nil
	}

	isAdmin, err := g.roles.HasRole(ctx, caller, domain.RoleAdmin)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "role check failed")
	}
	if isAdmin {
		return nil
	}

	for _, role := range rolesFor(op) {
		ok, err := g.roles.HasRole(ctx, caller, role)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnauthorized, "role check failed")
		}
		if ok {
			return nil
		}
	}

	return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized for this operation")
}

// RequireOwner allows only the resource owner, with no admin or role
// override. Patient-controlled surfaces such as the access ledger use it.
func (g *Gate) RequireOwner(caller, owner domain.Principal) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if caller != owner {
		return dErrors.New(dErrors.CodeUnauthorized, "only the resource owner may perform this operation")
	}
	return nil
}

func rolesFor(op Operation) []domain.Role {
	switch op {
	case OpProcessClaim:
		return []domain.Role{domain.RoleVerifiedInsurer}
	case OpVerifyDoctor:
		return []domain.Role{domain.RoleVerifiedInstitution}
	default:
		return nil
	}
}
