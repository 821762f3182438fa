package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"vitacare/pkg/domain"
)

type RoleStoreSuite struct {
	suite.Suite
	store *InMemoryRoleStore
	ctx   context.Context
}

func (s *RoleStoreSuite) SetupTest() {
	s.store = NewInMemoryRoleStore()
	s.ctx = context.Background()
}

func TestRoleStoreSuite(t *testing.T) {
	suite.Run(t, new(RoleStoreSuite))
}

func (s *RoleStoreSuite) TestGrantAndCheck() {
	s.Run("granted role is held", func() {
		s.Require().NoError(s.store.Grant(s.ctx, "GINSURER", domain.RoleVerifiedInsurer))

		ok, err := s.store.Has(s.ctx, "GINSURER", domain.RoleVerifiedInsurer)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("ungranted role is not held", func() {
		ok, err := s.store.Has(s.ctx, "GINSURER", domain.RoleAdmin)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("granting twice is idempotent", func() {
		s.Require().NoError(s.store.Grant(s.ctx, "GINSURER", domain.RoleVerifiedInsurer))
		s.Require().NoError(s.store.Grant(s.ctx, "GINSURER", domain.RoleVerifiedInsurer))

		members, err := s.store.Members(s.ctx, domain.RoleVerifiedInsurer)
		s.Require().NoError(err)
		s.Len(members, 1)
	})
}

func (s *RoleStoreSuite) TestRevoke() {
	s.Run("revoked role is no longer held", func() {
		s.Require().NoError(s.store.Grant(s.ctx, "GINSURER", domain.RoleVerifiedInsurer))
		s.Require().NoError(s.store.Revoke(s.ctx, "GINSURER", domain.RoleVerifiedInsurer))

		ok, err := s.store.Has(s.ctx, "GINSURER", domain.RoleVerifiedInsurer)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("revoking an absent role is a no-op", func() {
		s.Require().NoError(s.store.Revoke(s.ctx, "GNOBODY", domain.RoleAdmin))
	})
}

func (s *RoleStoreSuite) TestMembers() {
	s.Require().NoError(s.store.Grant(s.ctx, "GB", domain.RoleAdmin))
	s.Require().NoError(s.store.Grant(s.ctx, "GA", domain.RoleAdmin))

	members, err := s.store.Members(s.ctx, domain.RoleAdmin)
	s.Require().NoError(err)
	s.Equal([]domain.Principal{"GA", "GB"}, members)
}
