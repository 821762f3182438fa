// Package insurer implements the insurer registry. Insurers self-register,
// publish the policies they underwrite, and a platform administrator verifies
// them; verification grants the role that unlocks claim processing.
package insurer

import (
	"strings"
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Policy is an insurance product an insurer underwrites.
type Policy struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Coverage uint64 `json:"coverage"`
}

// Insurer is a registered insurance company.
type Insurer struct {
	Address      domain.Principal   `json:"address"`
	Name         string             `json:"name"`
	Policies     []Policy           `json:"policies"`
	Reviewers    []domain.Principal `json:"reviewers"`
	Active       bool               `json:"active"`
	Verified     bool               `json:"verified"`
	VerifiedBy   domain.Principal   `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time         `json:"verified_at,omitempty"`
	RegisteredAt time.Time          `json:"registered_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewInsurer validates the registration invariants.
func NewInsurer(address domain.Principal, name string, now time.Time) (Insurer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Insurer{}, dErrors.New(dErrors.CodeInvariantViolation, "insurer name is required")
	}
	return Insurer{
		Address:      address,
		Name:         name,
		Active:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}

// NewPolicy validates a policy before it is added to an insurer.
func NewPolicy(code, name string, coverage uint64) (Policy, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return Policy{}, dErrors.New(dErrors.CodeInvalidInput, "policy code and name are required")
	}
	if coverage == 0 {
		return Policy{}, dErrors.New(dErrors.CodeInvalidInput, "coverage must be greater than zero")
	}
	return Policy{Code: code, Name: name, Coverage: coverage}, nil
}

// CanVerify reports whether the insurer still awaits verification.
func (i *Insurer) CanVerify() error {
	if i.Verified {
		return dErrors.New(dErrors.CodeInvalidState, "insurer is already verified")
	}
	return nil
}

// ApplyVerification marks the insurer verified.
func (i *Insurer) ApplyVerification(by domain.Principal, at time.Time) {
	i.Verified = true
	i.VerifiedBy = by
	i.VerifiedAt = &at
}

// CanDeactivate reports whether the insurer is currently active.
func (i *Insurer) CanDeactivate() error {
	if !i.Active {
		return dErrors.New(dErrors.CodeInvalidState, "insurer is already deactivated")
	}
	return nil
}

// CanReactivate reports whether the insurer is currently deactivated.
func (i *Insurer) CanReactivate() error {
	if i.Active {
		return dErrors.New(dErrors.CodeInvalidState, "insurer is already active")
	}
	return nil
}

// ApplyProfileUpdate overwrites the mutable profile fields. Empty inputs keep
// the current value.
func (i *Insurer) ApplyProfileUpdate(name string) {
	if name = strings.TrimSpace(name); name != "" {
		i.Name = name
	}
}

// HasPolicy reports whether the insurer already lists the policy code.
func (i *Insurer) HasPolicy(code string) bool {
	for _, p := range i.Policies {
		if strings.EqualFold(p.Code, code) {
			return true
		}
	}
	return false
}

// HasReviewer reports whether the principal is already a reviewer.
func (i *Insurer) HasReviewer(reviewer domain.Principal) bool {
	for _, r := range i.Reviewers {
		if r == reviewer {
			return true
		}
	}
	return false
}
