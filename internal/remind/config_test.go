package remind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waterConfig(interval int, start, end TimeOfDay) Config {
	return Config{
		Type:            Water,
		IntervalMinutes: interval,
		WindowStart:     start,
		WindowEnd:       end,
	}
}

// TestTriggerTimes_TwoHourWindow pins the reference expansion: a 120-minute
// interval over 09:00-21:00 yields exactly seven triggers, on the odd hours.
func TestTriggerTimes_TwoHourWindow(t *testing.T) {
	cfg := waterConfig(120, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21})

	times, err := cfg.TriggerTimes()
	require.NoError(t, err)

	want := []TimeOfDay{
		{Hour: 9}, {Hour: 11}, {Hour: 13}, {Hour: 15}, {Hour: 17}, {Hour: 19}, {Hour: 21},
	}
	assert.Equal(t, want, times)
}

// TestTriggerTimes_ThreeHourWindow verifies the 180-minute expansion over
// the same window: five triggers at 09:00, 12:00, 15:00, 18:00, 21:00.
func TestTriggerTimes_ThreeHourWindow(t *testing.T) {
	cfg := waterConfig(180, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21})

	times, err := cfg.TriggerTimes()
	require.NoError(t, err)

	want := []TimeOfDay{
		{Hour: 9}, {Hour: 12}, {Hour: 15}, {Hour: 18}, {Hour: 21},
	}
	assert.Equal(t, want, times)
}

// TestTriggerTimes_CountFormula checks the floor((end-start)/interval)+1
// count over a spread of intervals, including ones that don't divide the
// window evenly and one larger than the whole window.
func TestTriggerTimes_CountFormula(t *testing.T) {
	cases := []struct {
		name     string
		interval int
		start    TimeOfDay
		end      TimeOfDay
		want     int
	}{
		{"divides evenly", 120, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21}, 7},
		{"does not divide evenly", 50, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21}, 15},
		{"forty-five minutes", 45, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21}, 17},
		{"interval larger than window", 1440, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21}, 1},
		{"zero-length window", 60, TimeOfDay{Hour: 12}, TimeOfDay{Hour: 12}, 1},
		{"minute-grain window", 15, TimeOfDay{Hour: 9, Minute: 30}, TimeOfDay{Hour: 10, Minute: 14}, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := waterConfig(tc.interval, tc.start, tc.end)
			times, err := cfg.TriggerTimes()
			require.NoError(t, err)
			assert.Len(t, times, tc.want)

			// Every generated time stays inside the window.
			for _, at := range times {
				assert.GreaterOrEqual(t, at.minutes(), tc.start.minutes())
				assert.LessOrEqual(t, at.minutes(), tc.end.minutes())
			}
		})
	}
}

// TestTriggerTimes_DailyTypes verifies meal/workout/sleep produce exactly
// one trigger at the configured time.
func TestTriggerTimes_DailyTypes(t *testing.T) {
	for _, typ := range []Type{Meal, Workout, Sleep} {
		t.Run(string(typ), func(t *testing.T) {
			cfg := Config{Type: typ, At: TimeOfDay{Hour: 7, Minute: 45}}
			times, err := cfg.TriggerTimes()
			require.NoError(t, err)
			assert.Equal(t, []TimeOfDay{{Hour: 7, Minute: 45}}, times)
		})
	}
}

// TestValidate_RejectsBadConfigs covers the validation guards. A rejected
// config must produce no trigger times at all.
func TestValidate_RejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown type", Config{Type: "nap", At: TimeOfDay{Hour: 12}}},
		{"zero interval", waterConfig(0, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21})},
		{"negative interval", waterConfig(-30, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 21})},
		{"window start after end", waterConfig(60, TimeOfDay{Hour: 21}, TimeOfDay{Hour: 9})},
		{"window hour out of range", waterConfig(60, TimeOfDay{Hour: 24}, TimeOfDay{Hour: 25})},
		{"window minute out of range", waterConfig(60, TimeOfDay{Hour: 9, Minute: 60}, TimeOfDay{Hour: 21})},
		{"daily hour out of range", Config{Type: Meal, At: TimeOfDay{Hour: -1}}},
		{"daily minute out of range", Config{Type: Sleep, At: TimeOfDay{Hour: 22, Minute: 75}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)

			times, err := tc.cfg.TriggerTimes()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Empty(t, times)
		})
	}
}

// TestDefaultConfig verifies every type ships a valid, disabled default.
func TestDefaultConfig(t *testing.T) {
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			cfg := DefaultConfig(typ)
			assert.Equal(t, typ, cfg.Type)
			assert.False(t, cfg.Enabled)
			assert.NoError(t, cfg.Validate())
		})
	}

	// The water default (every 2h, 09:00-21:00) expands to seven triggers.
	times, err := DefaultConfig(Water).TriggerTimes()
	require.NoError(t, err)
	assert.Len(t, times, 7)
}
