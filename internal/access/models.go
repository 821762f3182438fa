// Package access implements the patient-controlled delegation ledger. A
// patient decides who may read their medical records; every read of the
// record vault consults this ledger and fails closed.
package access

import (
	"time"

	"vitacare/pkg/domain"
)

// Grant is a patient's standing permission for a delegate to read their
// records. A nil ExpiresAt means the grant does not expire.
type Grant struct {
	Patient   domain.Principal `json:"patient"`
	Delegate  domain.Principal `json:"delegate"`
	GrantedAt time.Time        `json:"granted_at"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

// ActiveAt reports whether the grant is in force at the given instant.
func (g Grant) ActiveAt(at time.Time) bool {
	return g.ExpiresAt == nil || at.Before(*g.ExpiresAt)
}
