package claims

import (
	"context"

	"vitacare/pkg/domain"
)

// Store persists claims. Implementations return sentinel errors from
// pkg/platform/sentinel; the service translates them to domain errors.
type Store interface {
	// Create assigns the next claim identifier and persists the claim.
	// Identifiers are dense and start at zero.
	Create(ctx context.Context, claim Claim) (Claim, error)

	FindByID(ctx context.Context, id domain.ClaimID) (Claim, error)

	ListByPatient(ctx context.Context, patient domain.Principal) ([]Claim, error)

	// Execute runs validate then mutate against the stored claim atomically.
	// If validate fails nothing is written and the error is returned as-is.
	Execute(ctx context.Context, id domain.ClaimID, validate func(Claim) error, mutate func(*Claim)) (Claim, error)
}
