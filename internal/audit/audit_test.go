package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitacare/pkg/requestcontext"
)

func TestEmitStampsEnvelope(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)

	require.NoError(t, svc.Emit(ctx, Event{
		Actor:   "GPATIENT",
		Subject: "GDOCTOR",
		Action:  ActionAccessGranted,
	}))

	events, err := svc.List(ctx, "GPATIENT")
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, at, got.Timestamp)
	assert.Equal(t, ActionAccessGranted, got.Action)
}

func TestListIsScopedToActor(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.Emit(ctx, Event{Actor: "GPATIENT", Action: ActionRecordAdded}))
	require.NoError(t, svc.Emit(ctx, Event{Actor: "GDOCTOR", Action: ActionRecordAdded}))

	events, err := svc.List(ctx, "GPATIENT")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
