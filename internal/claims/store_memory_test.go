package claims

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/platform/sentinel"
)

type ClaimStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *ClaimStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestClaimStoreSuite(t *testing.T) {
	suite.Run(t, new(ClaimStoreSuite))
}

func (s *ClaimStoreSuite) newClaim(patient domain.Principal) Claim {
	return Claim{
		Patient:     patient,
		ServiceID:   "SVC-001",
		Cost:        5000,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}
}

// TestIdentifierAssignment verifies identifiers are dense and start at zero.
func (s *ClaimStoreSuite) TestIdentifierAssignment() {
	s.Run("first claim gets id zero", func() {
		created, err := s.store.Create(s.ctx, s.newClaim("GPATIENT1"))
		s.Require().NoError(err)
		s.Equal(domain.ClaimID(0), created.ID)
	})

	s.Run("subsequent claims increment by one", func() {
		second, err := s.store.Create(s.ctx, s.newClaim("GPATIENT1"))
		s.Require().NoError(err)
		third, err := s.store.Create(s.ctx, s.newClaim("GPATIENT2"))
		s.Require().NoError(err)
		s.Equal(domain.ClaimID(1), second.ID)
		s.Equal(domain.ClaimID(2), third.ID)
	})
}

func (s *ClaimStoreSuite) TestLookups() {
	s.Run("finds claim by id", func() {
		created, err := s.store.Create(s.ctx, s.newClaim("GPATIENT1"))
		s.Require().NoError(err)

		found, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created, found)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, domain.ClaimID(999))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("lists claims by patient in id order", func() {
		_, err := s.store.Create(s.ctx, s.newClaim("GPATIENT2"))
		s.Require().NoError(err)
		c2, err := s.store.Create(s.ctx, s.newClaim("GPATIENT3"))
		s.Require().NoError(err)
		c3, err := s.store.Create(s.ctx, s.newClaim("GPATIENT3"))
		s.Require().NoError(err)

		list, err := s.store.ListByPatient(s.ctx, "GPATIENT3")
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal(c2.ID, list[0].ID)
		s.Equal(c3.ID, list[1].ID)
	})
}

// TestExecute verifies validate-then-mutate runs atomically and rejects
// writes when validation fails.
func (s *ClaimStoreSuite) TestExecute() {
	s.Run("applies mutation when validation passes", func() {
		created, err := s.store.Create(s.ctx, s.newClaim("GPATIENT1"))
		s.Require().NoError(err)

		now := time.Now()
		updated, err := s.store.Execute(s.ctx, created.ID,
			func(c Claim) error { return c.CanProcess() },
			func(c *Claim) { c.ApplyDecision("GINSURER", true, now) },
		)
		s.Require().NoError(err)
		s.Equal(StatusApproved, updated.Status)
		s.Equal(domain.Principal("GINSURER"), updated.Insurer)
	})

	s.Run("rejects mutation when validation fails", func() {
		created, err := s.store.Create(s.ctx, s.newClaim("GPATIENT1"))
		s.Require().NoError(err)

		now := time.Now()
		_, err = s.store.Execute(s.ctx, created.ID,
			func(c Claim) error { return c.CanProcess() },
			func(c *Claim) { c.ApplyDecision("GINSURER", false, now) },
		)
		s.Require().NoError(err)

		_, err = s.store.Execute(s.ctx, created.ID,
			func(c Claim) error { return c.CanProcess() },
			func(c *Claim) { c.ApplyDecision("GOTHER", true, now) },
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

		found, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(StatusRejected, found.Status)
		s.Equal(domain.Principal("GINSURER"), found.Insurer)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Execute(s.ctx, domain.ClaimID(999),
			func(Claim) error { return nil },
			func(*Claim) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestConcurrentDecisions verifies that racing decisions on one claim result
// in exactly one success.
func (s *ClaimStoreSuite) TestConcurrentDecisions() {
	created, err := s.store.Create(s.ctx, s.newClaim("GPATIENT1"))
	s.Require().NoError(err)

	const goroutines = 50
	var wg sync.WaitGroup
	var successCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, created.ID,
				func(c Claim) error { return c.CanProcess() },
				func(c *Claim) { c.ApplyDecision("GINSURER", approve, time.Now()) },
			)
			if err == nil {
				successCount.Add(1)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())

	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(found.Terminal())
}
