// Package institution implements the medical institution registry.
// Institutions self-register and a platform administrator verifies them;
// verification grants the institution the role that lets it vouch for
// doctors.
package institution

import (
	"strings"
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Institution is a registered medical institution.
type Institution struct {
	Address      domain.Principal `json:"address"`
	Name         string           `json:"name"`
	Kind         string           `json:"kind,omitempty"`
	Verified     bool             `json:"verified"`
	VerifiedBy   domain.Principal `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time       `json:"verified_at,omitempty"`
	RegisteredAt time.Time        `json:"registered_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewInstitution validates the registration invariants.
func NewInstitution(address domain.Principal, name, kind string, now time.Time) (Institution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Institution{}, dErrors.New(dErrors.CodeInvariantViolation, "institution name is required")
	}
	return Institution{
		Address:      address,
		Name:         name,
		Kind:         strings.TrimSpace(kind),
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}

// ApplyProfileUpdate overwrites the mutable profile fields. Empty inputs keep
// the current value.
func (i *Institution) ApplyProfileUpdate(name, kind string, at time.Time) {
	if name = strings.TrimSpace(name); name != "" {
		i.Name = name
	}
	if kind = strings.TrimSpace(kind); kind != "" {
		i.Kind = kind
	}
	i.UpdatedAt = at
}

// CanVerify reports whether the institution still awaits verification.
func (i *Institution) CanVerify() error {
	if i.Verified {
		return dErrors.New(dErrors.CodeInvalidState, "institution is already verified")
	}
	return nil
}

// ApplyVerification marks the institution verified.
func (i *Institution) ApplyVerification(by domain.Principal, at time.Time) {
	i.Verified = true
	i.VerifiedBy = by
	i.VerifiedAt = &at
	i.UpdatedAt = at
}
