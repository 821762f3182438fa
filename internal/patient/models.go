// Package patient implements the patient registry. A patient record is keyed
// by the principal that registered it and only that principal may change it.
package patient

import (
	"strings"
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Patient is a registered patient profile.
type Patient struct {
	Address      domain.Principal `json:"address"`
	Name         string           `json:"name"`
	DateOfBirth  string           `json:"date_of_birth,omitempty"`
	BloodType    string           `json:"blood_type,omitempty"`
	Contact      string           `json:"contact,omitempty"`
	RegisteredAt time.Time        `json:"registered_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewPatient validates the profile invariants and builds a patient record.
func NewPatient(address domain.Principal, name, dateOfBirth, bloodType, contact string, now time.Time) (Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Patient{}, dErrors.New(dErrors.CodeInvariantViolation, "patient name is required")
	}
	return Patient{
		Address:      address,
		Name:         name,
		DateOfBirth:  strings.TrimSpace(dateOfBirth),
		BloodType:    strings.TrimSpace(bloodType),
		Contact:      strings.TrimSpace(contact),
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}
