package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

const patientAddr = domain.Principal("GPATIENT")

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and reads back a profile", func(t *testing.T) {
		svc := New(NewInMemoryStore())
		created, err := svc.Register(ctx, patientAddr, "Ada Example", "1990-04-01", "O+", "ada@example.org")
		require.NoError(t, err)

		found, err := svc.Get(ctx, patientAddr)
		require.NoError(t, err)
		assert.Equal(t, created, found)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		svc := New(NewInMemoryStore())
		_, err := svc.Register(ctx, patientAddr, "Ada Example", "", "", "")
		require.NoError(t, err)

		_, err = svc.Register(ctx, patientAddr, "Someone Else", "", "", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("name is required", func(t *testing.T) {
		svc := New(NewInMemoryStore())
		_, err := svc.Register(ctx, patientAddr, "   ", "", "", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc := New(NewInMemoryStore())

	_, err := svc.Get(ctx, patientAddr)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates provided fields and keeps the rest", func(t *testing.T) {
		svc := New(NewInMemoryStore())
		_, err := svc.Register(ctx, patientAddr, "Ada Example", "1990-04-01", "O+", "old@example.org")
		require.NoError(t, err)

		updated, err := svc.Update(ctx, patientAddr, "", "", "", "new@example.org")
		require.NoError(t, err)
		assert.Equal(t, "Ada Example", updated.Name)
		assert.Equal(t, "O+", updated.BloodType)
		assert.Equal(t, "new@example.org", updated.Contact)
	})

	t.Run("updating an unregistered patient is not found", func(t *testing.T) {
		svc := New(NewInMemoryStore())
		_, err := svc.Update(ctx, patientAddr, "Name", "", "", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	svc := New(NewInMemoryStore())

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = svc.Register(ctx, patientAddr, "Ada Example", "", "", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "GOTHER", "Grace Example", "", "", "")
	require.NoError(t, err)

	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
