package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

const (
	adminAddr    = domain.Principal("GADMIN")
	insurerAddr  = domain.Principal("GINSURER")
	strangerAddr = domain.Principal("GSTRANGER")
)

func newBootstrappedService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewInMemoryRoleStore())
	require.NoError(t, svc.Bootstrap(context.Background(), adminAddr))
	return svc
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstrapped admin holds the admin role", func(t *testing.T) {
		svc := newBootstrappedService(t)
		ok, err := svc.HasRole(ctx, adminAddr, domain.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty admin principal is rejected", func(t *testing.T) {
		svc := NewService(NewInMemoryRoleStore())
		err := svc.Bootstrap(ctx, domain.Principal(""))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("role changes before bootstrap fail closed", func(t *testing.T) {
		svc := NewService(NewInMemoryRoleStore())
		err := svc.GrantRole(ctx, adminAddr, insurerAddr, domain.RoleVerifiedInsurer)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotInitialized))
	})
}

func TestGrantRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin grants a role", func(t *testing.T) {
		svc := newBootstrappedService(t)
		require.NoError(t, svc.GrantRole(ctx, adminAddr, insurerAddr, domain.RoleVerifiedInsurer))

		ok, err := svc.HasRole(ctx, insurerAddr, domain.RoleVerifiedInsurer)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-admin cannot grant", func(t *testing.T) {
		svc := newBootstrappedService(t)
		err := svc.GrantRole(ctx, strangerAddr, insurerAddr, domain.RoleVerifiedInsurer)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestRevokeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin revokes a role", func(t *testing.T) {
		svc := newBootstrappedService(t)
		require.NoError(t, svc.GrantRole(ctx, adminAddr, insurerAddr, domain.RoleVerifiedInsurer))
		require.NoError(t, svc.RevokeRole(ctx, adminAddr, insurerAddr, domain.RoleVerifiedInsurer))

		ok, err := svc.HasRole(ctx, insurerAddr, domain.RoleVerifiedInsurer)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-admin cannot revoke", func(t *testing.T) {
		svc := newBootstrappedService(t)
		err := svc.RevokeRole(ctx, strangerAddr, insurerAddr, domain.RoleVerifiedInsurer)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestWithdrawRole(t *testing.T) {
	ctx := context.Background()
	svc := newBootstrappedService(t)

	require.NoError(t, svc.GrantRole(ctx, adminAddr, insurerAddr, domain.RoleVerifiedInsurer))
	require.NoError(t, svc.WithdrawRole(ctx, insurerAddr, domain.RoleVerifiedInsurer))

	ok, err := svc.HasRole(ctx, insurerAddr, domain.RoleVerifiedInsurer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMembers(t *testing.T) {
	ctx := context.Background()
	svc := newBootstrappedService(t)

	require.NoError(t, svc.GrantRole(ctx, adminAddr, insurerAddr, domain.RoleVerifiedInsurer))

	members, err := svc.Members(ctx, domain.RoleVerifiedInsurer)
	require.NoError(t, err)
	assert.Equal(t, []domain.Principal{insurerAddr}, members)
}
