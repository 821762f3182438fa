// Package claims implements the insurance claim lifecycle: patients submit
// claims for services they received, and verified insurers or administrators
// settle each claim exactly once.
package claims

import (
	"time"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// ClaimStatus is the lifecycle state of a claim. Pending is the only state
// that accepts a decision; Approved and Rejected are terminal.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusApproved ClaimStatus = "approved"
	StatusRejected ClaimStatus = "rejected"
)

// Claim is a reimbursement request for a medical service.
type Claim struct {
	ID          domain.ClaimID   `json:"id"`
	Patient     domain.Principal `json:"patient"`
	ServiceID   string           `json:"service_id"`
	Cost        uint64           `json:"cost"`
	Status      ClaimStatus      `json:"status"`
	Insurer     domain.Principal `json:"insurer,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
}

// CanProcess reports whether the claim still accepts a decision.
func (c *Claim) CanProcess() error {
	if c.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidState, "claim has already been processed")
	}
	return nil
}

// ApplyDecision settles the claim. Callers must check CanProcess first; the
// two are split so the store can run them under one lock.
func (c *Claim) ApplyDecision(insurer domain.Principal, approve bool, at time.Time) {
	if approve {
		c.Status = StatusApproved
	} else {
		c.Status = StatusRejected
	}
	c.Insurer = insurer
	c.ProcessedAt = &at
}

// Terminal reports whether the claim has reached a final state.
func (c *Claim) Terminal() bool {
	return c.Status == StatusApproved || c.Status == StatusRejected
}
