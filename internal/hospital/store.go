package hospital

import (
	"context"

	"vitacare/pkg/domain"
)

// Stats summarizes the registry for dashboards.
type Stats struct {
	Total         int               `json:"total"`
	Active        int               `json:"active"`
	TotalCapacity uint64            `json:"total_capacity"`
	BySpecialty   map[Specialty]int `json:"by_specialty"`
}

// Store persists hospitals. Create assigns the next identifier; identifiers
// start at one.
type Store interface {
	Create(ctx context.Context, hospital Hospital) (Hospital, error)
	FindByID(ctx context.Context, id domain.HospitalID) (Hospital, error)
	ListActive(ctx context.Context) ([]Hospital, error)
	ListBySpecialty(ctx context.Context, sp Specialty) ([]Hospital, error)
	Stats(ctx context.Context) (Stats, error)

	// Execute runs validate then mutate against the stored hospital atomically.
	Execute(ctx context.Context, id domain.HospitalID, validate func(Hospital) error, mutate func(*Hospital)) (Hospital, error)
}
