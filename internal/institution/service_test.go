package institution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

const (
	instituteAddr = domain.Principal("GINSTITUTE")
	adminAddr     = domain.Principal("GADMIN")
	strangerAddr  = domain.Principal("GSTRANGER")
)

type stubRoles struct {
	granted map[domain.Principal][]domain.Role
}

func (r *stubRoles) GrantRole(_ context.Context, caller, subject domain.Principal, role domain.Role) error {
	if caller != adminAddr {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an administrator")
	}
	if r.granted == nil {
		r.granted = make(map[domain.Principal][]domain.Role)
	}
	r.granted[subject] = append(r.granted[subject], role)
	return nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an unverified institution", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		inst, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "regulator")
		require.NoError(t, err)
		assert.False(t, inst.Verified)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "")
		require.NoError(t, err)
		_, err = svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("name is required", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Register(ctx, instituteAddr, "  ", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty fields keep current values", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "regulator")
		require.NoError(t, err)

		inst, err := svc.Update(ctx, instituteAddr, "Regional Health Board", "")
		require.NoError(t, err)
		assert.Equal(t, "Regional Health Board", inst.Name)
		assert.Equal(t, "regulator", inst.Kind)
		assert.False(t, inst.UpdatedAt.Before(inst.RegisteredAt))
	})

	t.Run("update leaves verification untouched", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "")
		require.NoError(t, err)
		_, err = svc.Verify(ctx, adminAddr, instituteAddr)
		require.NoError(t, err)

		inst, err := svc.Update(ctx, instituteAddr, "", "network")
		require.NoError(t, err)
		assert.True(t, inst.Verified)
	})

	t.Run("unregistered institution is not found", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Update(ctx, instituteAddr, "Teaching Hospital Board", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("admin verifies and the role is granted", func(t *testing.T) {
		roles := &stubRoles{}
		svc := New(NewInMemoryStore(), roles)
		_, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "")
		require.NoError(t, err)

		inst, err := svc.Verify(ctx, adminAddr, instituteAddr)
		require.NoError(t, err)
		assert.True(t, inst.Verified)
		assert.Equal(t, adminAddr, inst.VerifiedBy)
		assert.Contains(t, roles.granted[instituteAddr], domain.RoleVerifiedInstitution)
	})

	t.Run("non-admin caller is denied and no role is granted", func(t *testing.T) {
		roles := &stubRoles{}
		svc := New(NewInMemoryStore(), roles)
		_, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "")
		require.NoError(t, err)

		_, err = svc.Verify(ctx, strangerAddr, instituteAddr)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Empty(t, roles.granted[instituteAddr])

		inst, err := svc.Get(ctx, instituteAddr)
		require.NoError(t, err)
		assert.False(t, inst.Verified)
	})

	t.Run("second verification is rejected", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Register(ctx, instituteAddr, "Teaching Hospital Board", "")
		require.NoError(t, err)
		_, err = svc.Verify(ctx, adminAddr, instituteAddr)
		require.NoError(t, err)

		_, err = svc.Verify(ctx, adminAddr, instituteAddr)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	t.Run("unknown institution is not found", func(t *testing.T) {
		svc := New(NewInMemoryStore(), &stubRoles{})
		_, err := svc.Verify(ctx, adminAddr, instituteAddr)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
