//go:build integration

package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"vitacare/internal/identity"
	platformredis "vitacare/internal/platform/redis"
	"vitacare/pkg/domain"
	"vitacare/pkg/testutil/containers"
)

type RedisRoleStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *identity.RedisRoleStore
}

func TestRedisRoleStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisRoleStoreSuite))
}

func (s *RedisRoleStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = identity.NewRedisRoleStore(&platformredis.Client{Client: s.redis.Client})
}

func (s *RedisRoleStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisRoleStoreSuite) TestGrantCheckRevoke() {
	ctx := context.Background()

	s.Require().NoError(s.store.Grant(ctx, "GINSURER", domain.RoleVerifiedInsurer))

	ok, err := s.store.Has(ctx, "GINSURER", domain.RoleVerifiedInsurer)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.Has(ctx, "GINSURER", domain.RoleAdmin)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Revoke(ctx, "GINSURER", domain.RoleVerifiedInsurer))

	ok, err = s.store.Has(ctx, "GINSURER", domain.RoleVerifiedInsurer)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisRoleStoreSuite) TestMembers() {
	ctx := context.Background()

	s.Require().NoError(s.store.Grant(ctx, "GA", domain.RoleAdmin))
	s.Require().NoError(s.store.Grant(ctx, "GB", domain.RoleAdmin))

	members, err := s.store.Members(ctx, domain.RoleAdmin)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Principal{"GA", "GB"}, members)
}
