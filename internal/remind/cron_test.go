package remind

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCronDevice_ScheduleAndCancel verifies the id bookkeeping: distinct
// opaque ids per registration, per-user listing sorted by time, and cancel
// removing exactly the targeted entry.
func TestCronDevice_ScheduleAndCancel(t *testing.T) {
	ctx := context.Background()
	d := NewCronDevice(func(int, string) {})

	idLate, err := d.ScheduleDaily(ctx, 1, TimeOfDay{Hour: 21}, "water")
	require.NoError(t, err)
	idEarly, err := d.ScheduleDaily(ctx, 1, TimeOfDay{Hour: 9}, "water")
	require.NoError(t, err)
	idOther, err := d.ScheduleDaily(ctx, 2, TimeOfDay{Hour: 13}, "meal")
	require.NoError(t, err)

	assert.NotEqual(t, idLate, idEarly)
	assert.NotEqual(t, idLate, idOther)

	live, err := d.Scheduled(ctx, 1)
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, idEarly, live[0].ID, "listing must be sorted by time of day")
	assert.Equal(t, idLate, live[1].ID)

	require.NoError(t, d.Cancel(ctx, idEarly))
	live, err = d.Scheduled(ctx, 1)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, idLate, live[0].ID)

	// Unknown ids are already gone.
	assert.NoError(t, d.Cancel(ctx, "no-such-trigger"))

	other, err := d.Scheduled(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

// TestCronDevice_StartStop smoke-tests the engine lifecycle around a live
// registration.
func TestCronDevice_StartStop(t *testing.T) {
	ctx := context.Background()
	d := NewCronDevice(func(int, string) {})

	_, err := d.ScheduleDaily(ctx, 1, TimeOfDay{Hour: 8, Minute: 30}, "workout")
	require.NoError(t, err)

	d.Start()
	time.Sleep(50 * time.Millisecond)
	d.Stop()
}
