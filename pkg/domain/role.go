package domain

import dErrors "vitacare/pkg/domain-errors"

// Role is a privileged capability held by a set of principals. Membership is a
// set: granting twice is a no-op, and a principal is either in or out.
type Role string

const (
	// RoleAdmin may act on any record in any registry.
	RoleAdmin Role = "admin"
	// RoleVerifiedInsurer may process insurance claims.
	RoleVerifiedInsurer Role = "verified_insurer"
	// RoleVerifiedInstitution may verify doctor credentials.
	RoleVerifiedInstitution Role = "verified_institution"
)

var validRoles = map[Role]bool{
	RoleAdmin:               true,
	RoleVerifiedInsurer:     true,
	RoleVerifiedInstitution: true,
}

// ParseRole constructs a Role from external input, enforcing the allowlist.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
