// Package hospital implements the hospital registry. Each hospital names an
// administrator principal at registration; that administrator manages the
// hospital's lifecycle.
package hospital

import (
	"strings"
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Specialty is a normalized department label used for indexed lookups.
type Specialty string

// NewSpecialty normalizes a raw label. Lookups and stored values go through
// the same normalization so the index never misses on case.
func NewSpecialty(raw string) (Specialty, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "specialty is required")
	}
	return Specialty(raw), nil
}

// Hospital is a registered hospital.
type Hospital struct {
	ID           domain.HospitalID `json:"id"`
	Admin        domain.Principal  `json:"admin"`
	Name         string            `json:"name"`
	City         string            `json:"city,omitempty"`
	Specialties  []Specialty       `json:"specialties"`
	Capacity     uint64            `json:"capacity"`
	Active       bool              `json:"active"`
	RegisteredAt time.Time         `json:"registered_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewHospital validates the registration invariants and builds a hospital.
func NewHospital(admin domain.Principal, name, city string, specialties []string, capacity uint64, now time.Time) (Hospital, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Hospital{}, dErrors.New(dErrors.CodeInvariantViolation, "hospital name is required")
	}
	if admin.IsZero() {
		return Hospital{}, dErrors.New(dErrors.CodeInvariantViolation, "hospital admin is required")
	}

	normalized := make([]Specialty, 0, len(specialties))
	seen := make(map[Specialty]struct{})
	for _, raw := range specialties {
		sp, err := NewSpecialty(raw)
		if err != nil {
			return Hospital{}, err
		}
		if _, dup := seen[sp]; dup {
			continue
		}
		seen[sp] = struct{}{}
		normalized = append(normalized, sp)
	}

	return Hospital{
		Admin:        admin,
		Name:         name,
		City:         strings.TrimSpace(city),
		Specialties:  normalized,
		Capacity:     capacity,
		Active:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}

// CanDeactivate reports whether the hospital is currently active.
func (h *Hospital) CanDeactivate() error {
	if !h.Active {
		return dErrors.New(dErrors.CodeInvalidState, "hospital is already deactivated")
	}
	return nil
}

// HasSpecialty reports whether the hospital lists the given specialty.
func (h *Hospital) HasSpecialty(sp Specialty) bool {
	for _, s := range h.Specialties {
		if s == sp {
			return true
		}
	}
	return false
}

// AddSpecialty appends a department. Adding a listed specialty is a no-op.
func (h *Hospital) AddSpecialty(sp Specialty) {
	if !h.HasSpecialty(sp) {
		h.Specialties = append(h.Specialties, sp)
	}
}

// CanTransferAdmin validates the incoming administrator.
func (h *Hospital) CanTransferAdmin(to domain.Principal) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "new admin is required")
	}
	if to == h.Admin {
		return dErrors.New(dErrors.CodeInvalidInput, "principal is already the hospital admin")
	}
	return nil
}
