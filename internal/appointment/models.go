// Package appointment implements appointment scheduling between patients and
// doctors. Scheduled is the only state that accepts a transition; Canceled
// and Completed are terminal.
package appointment

import (
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

// Appointment is a booked visit.
type Appointment struct {
	ID           domain.AppointmentID `json:"id"`
	Patient      domain.Principal     `json:"patient"`
	Doctor       domain.Principal     `json:"doctor"`
	ScheduledFor time.Time            `json:"scheduled_for"`
	Reason       string               `json:"reason,omitempty"`
	Status       Status               `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// CanCancel reports whether the appointment may still be canceled.
func (a *Appointment) CanCancel() error {
	if a.Status != StatusScheduled {
		return dErrors.New(dErrors.CodeInvalidState, "appointment is no longer scheduled")
	}
	return nil
}

// CanComplete reports whether the appointment may be marked completed.
func (a *Appointment) CanComplete() error {
	if a.Status != StatusScheduled {
		return dErrors.New(dErrors.CodeInvalidState, "appointment is no longer scheduled")
	}
	return nil
}
