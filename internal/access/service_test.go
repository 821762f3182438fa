package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

const (
	patientAddr  = domain.Principal("GPATIENT")
	doctorAddr   = domain.Principal("GDOCTOR")
	strangerAddr = domain.Principal("GSTRANGER")
)

func newTestService() *Service {
	return New(NewInMemoryStore())
}

func TestGrant(t *testing.T) {
	ctx := context.Background()

	t.Run("grant then check access", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Grant(ctx, patientAddr, doctorAddr, nil)
		require.NoError(t, err)

		ok, err := svc.HasAccess(ctx, patientAddr, doctorAddr)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("granting twice is idempotent", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Grant(ctx, patientAddr, doctorAddr, nil)
		require.NoError(t, err)
		_, err = svc.Grant(ctx, patientAddr, doctorAddr, nil)
		require.NoError(t, err)

		grants, err := svc.ListDelegates(ctx, patientAddr)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("self grant is rejected", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Grant(ctx, patientAddr, patientAddr, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("expiry in the past is rejected", func(t *testing.T) {
		svc := newTestService()
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		frozen := requestcontext.WithTime(ctx, now)
		past := now.Add(-time.Hour)
		_, err := svc.Grant(frozen, patientAddr, doctorAddr, &past)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("regrant refreshes the expiry", func(t *testing.T) {
		svc := newTestService()
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		frozen := requestcontext.WithTime(ctx, now)

		soon := now.Add(time.Hour)
		_, err := svc.Grant(frozen, patientAddr, doctorAddr, &soon)
		require.NoError(t, err)

		later := now.Add(24 * time.Hour)
		_, err = svc.Grant(frozen, patientAddr, doctorAddr, &later)
		require.NoError(t, err)

		afterSoon := requestcontext.WithTime(ctx, now.Add(2*time.Hour))
		ok, err := svc.HasAccess(afterSoon, patientAddr, doctorAddr)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked delegate loses access", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Grant(ctx, patientAddr, doctorAddr, nil)
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(ctx, patientAddr, doctorAddr))

		ok, err := svc.HasAccess(ctx, patientAddr, doctorAddr)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("revoking an absent grant is a no-op", func(t *testing.T) {
		svc := newTestService()
		require.NoError(t, svc.Revoke(ctx, patientAddr, doctorAddr))
	})

	t.Run("revoking another patient's grant has no effect on it", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Grant(ctx, patientAddr, doctorAddr, nil)
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(ctx, strangerAddr, doctorAddr))

		ok, err := svc.HasAccess(ctx, patientAddr, doctorAddr)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestHasAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("patients always read their own records", func(t *testing.T) {
		svc := newTestService()
		ok, err := svc.HasAccess(ctx, patientAddr, patientAddr)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no grant means no access", func(t *testing.T) {
		svc := newTestService()
		ok, err := svc.HasAccess(ctx, patientAddr, strangerAddr)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("grant expires at the request time", func(t *testing.T) {
		svc := newTestService()
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		expiry := now.Add(time.Hour)

		frozen := requestcontext.WithTime(ctx, now)
		_, err := svc.Grant(frozen, patientAddr, doctorAddr, &expiry)
		require.NoError(t, err)

		beforeExpiry := requestcontext.WithTime(ctx, expiry.Add(-time.Second))
		ok, err := svc.HasAccess(beforeExpiry, patientAddr, doctorAddr)
		require.NoError(t, err)
		assert.True(t, ok)

		atExpiry := requestcontext.WithTime(ctx, expiry)
		ok, err = svc.HasAccess(atExpiry, patientAddr, doctorAddr)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing identities deny", func(t *testing.T) {
		svc := newTestService()
		ok, err := svc.HasAccess(ctx, patientAddr, domain.Principal(""))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestListDelegates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Grant(ctx, patientAddr, doctorAddr, nil)
	require.NoError(t, err)
	_, err = svc.Grant(ctx, patientAddr, strangerAddr, nil)
	require.NoError(t, err)
	_, err = svc.Grant(ctx, doctorAddr, strangerAddr, nil)
	require.NoError(t, err)

	grants, err := svc.ListDelegates(ctx, patientAddr)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	for _, g := range grants {
		assert.Equal(t, patientAddr, g.Patient)
	}
}

func TestListDelegatesOmitsExpiredGrants(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	frozen := requestcontext.WithTime(ctx, now)

	expiry := now.Add(time.Hour)
	_, err := svc.Grant(frozen, patientAddr, doctorAddr, &expiry)
	require.NoError(t, err)
	_, err = svc.Grant(frozen, patientAddr, strangerAddr, nil)
	require.NoError(t, err)

	afterExpiry := requestcontext.WithTime(ctx, expiry.Add(time.Minute))
	grants, err := svc.ListDelegates(afterExpiry, patientAddr)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, strangerAddr, grants[0].Delegate)
}
