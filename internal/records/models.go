// Package records implements the medical record vault. Entries are append
// only; every read and write is gated by the patient's delegation ledger.
package records

import (
	"time"

	"vitacare/pkg/domain"
)

// Entry is a single medical record. Sequence numbers are per patient and
// start at one, so the first record a patient ever receives is record 1.
type Entry struct {
	Seq         domain.RecordID  `json:"id"`
	Patient     domain.Principal `json:"patient"`
	Author      domain.Principal `json:"author"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}
