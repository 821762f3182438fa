// Package doctor implements the doctor registry. Doctors self-register and a
// verified medical institution (or an administrator) vouches for them.
package doctor

import (
	"strings"
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Doctor is a registered practitioner profile.
type Doctor struct {
	Address      domain.Principal `json:"address"`
	Name         string           `json:"name"`
	Specialty    string           `json:"specialty"`
	LicenseID    string           `json:"license_id,omitempty"`
	Verified     bool             `json:"verified"`
	VerifiedBy   domain.Principal `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time       `json:"verified_at,omitempty"`
	RegisteredAt time.Time        `json:"registered_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewDoctor validates the profile invariants and builds a doctor record.
func NewDoctor(address domain.Principal, name, specialty, licenseID string, now time.Time) (Doctor, error) {
	name = strings.TrimSpace(name)
	specialty = strings.TrimSpace(specialty)
	if name == "" {
		return Doctor{}, dErrors.New(dErrors.CodeInvariantViolation, "doctor name is required")
	}
	if specialty == "" {
		return Doctor{}, dErrors.New(dErrors.CodeInvariantViolation, "specialty is required")
	}
	return Doctor{
		Address:      address,
		Name:         name,
		Specialty:    specialty,
		LicenseID:    strings.TrimSpace(licenseID),
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}

// ApplyProfileUpdate overwrites the mutable profile fields. Empty inputs keep
// the current value.
func (d *Doctor) ApplyProfileUpdate(name, specialty, licenseID string, at time.Time) {
	if name = strings.TrimSpace(name); name != "" {
		d.Name = name
	}
	if specialty = strings.TrimSpace(specialty); specialty != "" {
		d.Specialty = specialty
	}
	if licenseID = strings.TrimSpace(licenseID); licenseID != "" {
		d.LicenseID = licenseID
	}
	d.UpdatedAt = at
}

// CanVerify reports whether the doctor still awaits verification.
func (d *Doctor) CanVerify() error {
	if d.Verified {
		return dErrors.New(dErrors.CodeInvalidState, "doctor is already verified")
	}
	return nil
}

// ApplyVerification marks the doctor verified.
func (d *Doctor) ApplyVerification(by domain.Principal, at time.Time) {
	d.Verified = true
	d.VerifiedBy = by
	d.VerifiedAt = &at
	d.UpdatedAt = at
}
