package hospital

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitacare/internal/authz"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

const (
	hospitalAdmin = domain.Principal("GHOSPADMIN")
	platformAdmin = domain.Principal("GADMIN")
	strangerAddr  = domain.Principal("GSTRANGER")
)

type stubGate struct {
	admins map[domain.Principal]bool
}

func (g *stubGate) Authorize(_ context.Context, caller, owner domain.Principal, _ authz.Operation) error {
	if !owner.IsZero() && caller == owner {
		return nil
	}
	if g.admins[caller] {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized for this operation")
}

func newTestService() *Service {
	return New(NewInMemoryStore(), &stubGate{admins: map[domain.Principal]bool{platformAdmin: true}})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("identifiers start at one and increment", func(t *testing.T) {
		svc := newTestService()
		first, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "Lagos", []string{"cardiology"}, 200)
		require.NoError(t, err)
		assert.Equal(t, domain.HospitalID(1), first.ID)
		assert.True(t, first.Active)
		assert.Equal(t, uint64(200), first.Capacity)

		second, err := svc.Register(ctx, hospitalAdmin, "City Clinic", "", nil, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.HospitalID(2), second.ID)
	})

	t.Run("specialties are normalized and deduplicated", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", []string{"Cardiology", " cardiology ", "Oncology"}, 0)
		require.NoError(t, err)
		assert.Equal(t, []Specialty{"cardiology", "oncology"}, h.Specialties)
	})

	t.Run("name is required", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Register(ctx, hospitalAdmin, " ", "", nil, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("hospital admin deactivates their hospital", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)

		updated, err := svc.Deactivate(ctx, hospitalAdmin, h.ID)
		require.NoError(t, err)
		assert.False(t, updated.Active)
	})

	t.Run("platform admin may deactivate any hospital", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)

		updated, err := svc.Deactivate(ctx, platformAdmin, h.ID)
		require.NoError(t, err)
		assert.False(t, updated.Active)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)

		_, err = svc.Deactivate(ctx, strangerAddr, h.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("double deactivation is rejected", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)
		_, err = svc.Deactivate(ctx, hospitalAdmin, h.ID)
		require.NoError(t, err)

		_, err = svc.Deactivate(ctx, hospitalAdmin, h.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	t.Run("unknown hospital is not found", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Deactivate(ctx, hospitalAdmin, domain.HospitalID(99))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAddSpecialty(t *testing.T) {
	ctx := context.Background()

	t.Run("new department becomes searchable", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", []string{"cardiology"}, 0)
		require.NoError(t, err)

		updated, err := svc.AddSpecialty(ctx, hospitalAdmin, h.ID, "Oncology")
		require.NoError(t, err)
		assert.Equal(t, []Specialty{"cardiology", "oncology"}, updated.Specialties)

		list, err := svc.ListBySpecialty(ctx, "oncology")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, h.ID, list[0].ID)
	})

	t.Run("adding a listed department is a no-op", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", []string{"cardiology"}, 0)
		require.NoError(t, err)

		updated, err := svc.AddSpecialty(ctx, hospitalAdmin, h.ID, " Cardiology ")
		require.NoError(t, err)
		assert.Len(t, updated.Specialties, 1)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)

		_, err = svc.AddSpecialty(ctx, strangerAddr, h.ID, "oncology")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestUpdateCapacity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 100)
	require.NoError(t, err)

	updated, err := svc.UpdateCapacity(ctx, hospitalAdmin, h.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), updated.Capacity)

	_, err = svc.UpdateCapacity(ctx, strangerAddr, h.ID, 10)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTransferAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("current admin hands over management", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)

		updated, err := svc.TransferAdmin(ctx, hospitalAdmin, h.ID, strangerAddr)
		require.NoError(t, err)
		assert.Equal(t, strangerAddr, updated.Admin)

		// The previous admin lost management rights.
		_, err = svc.UpdateCapacity(ctx, hospitalAdmin, h.ID, 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("transfer to the current admin is rejected", func(t *testing.T) {
		svc := newTestService()
		h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
		require.NoError(t, err)

		_, err = svc.TransferAdmin(ctx, hospitalAdmin, h.ID, hospitalAdmin)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestListBySpecialty(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	h1, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", []string{"cardiology", "oncology"}, 0)
	require.NoError(t, err)
	_, err = svc.Register(ctx, hospitalAdmin, "City Clinic", "", []string{"dermatology"}, 0)
	require.NoError(t, err)

	list, err := svc.ListBySpecialty(ctx, "Cardiology")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, h1.ID, list[0].ID)

	_, err = svc.ListBySpecialty(ctx, "  ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	h1, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", nil, 0)
	require.NoError(t, err)
	h2, err := svc.Register(ctx, hospitalAdmin, "City Clinic", "", nil, 0)
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, hospitalAdmin, h1.ID)
	require.NoError(t, err)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, h2.ID, list[0].ID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	h, err := svc.Register(ctx, hospitalAdmin, "General Hospital", "", []string{"cardiology"}, 150)
	require.NoError(t, err)
	_, err = svc.Register(ctx, hospitalAdmin, "City Clinic", "", []string{"cardiology", "dermatology"}, 50)
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, hospitalAdmin, h.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, uint64(200), stats.TotalCapacity)
	assert.Equal(t, 2, stats.BySpecialty["cardiology"])
	assert.Equal(t, 1, stats.BySpecialty["dermatology"])
}
