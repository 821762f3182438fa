package handler

import (
	"time"

	"vitacare/internal/claims"
)

// ClaimResponse is the wire representation of a claim.
type ClaimResponse struct {
	ID          uint64     `json:"id"`
	Patient     string     `json:"patient"`
	ServiceID   string     `json:"service_id"`
	Cost        uint64     `json:"cost"`
	Status      string     `json:"status"`
	Insurer     string     `json:"insurer,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func fromClaim(c claims.Claim) ClaimResponse {
	return ClaimResponse{
		ID:          uint64(c.ID),
		Patient:     c.Patient.String(),
		ServiceID:   c.ServiceID,
		Cost:        c.Cost,
		Status:      string(c.Status),
		Insurer:     c.Insurer.String(),
		SubmittedAt: c.SubmittedAt,
		ProcessedAt: c.ProcessedAt,
	}
}

func fromClaims(list []claims.Claim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(list))
	for _, c := range list {
		out = append(out, fromClaim(c))
	}
	return out
}
