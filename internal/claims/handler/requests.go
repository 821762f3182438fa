package handler

import (
	"strings"

	dErrors "vitacare/pkg/domain-errors"
)

// SubmitRequest is the payload for filing a new claim.
type SubmitRequest struct {
	ServiceID string `json:"service_id"`
	Cost      uint64 `json:"cost"`
}

func (r SubmitRequest) Validate() error {
	if strings.TrimSpace(r.ServiceID) == "" {
		return dErrors.New(dErrors.CodeValidation, "service_id is required")
	}
	if r.Cost == 0 {
		return dErrors.New(dErrors.CodeValidation, "cost must be greater than zero")
	}
	return nil
}

// DecisionRequest is the payload for settling a pending claim.
type DecisionRequest struct {
	Approve *bool `json:"approve"`
}

func (r DecisionRequest) Validate() error {
	if r.Approve == nil {
		return dErrors.New(dErrors.CodeValidation, "approve is required")
	}
	return nil
}
