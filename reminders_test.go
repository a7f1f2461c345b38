package main

import (
	"testing"

	"rh/ai-fitness-go-api/internal/remind"
)

func TestReminderConfigFromRow(t *testing.T) {
	row := reminderSettingsRow{
		UserID:            3,
		Type:              "water",
		Enabled:           true,
		IntervalMinutes:   120,
		WindowStartHour:   9,
		WindowEndHour:     21,
		WindowStartMinute: 0,
		WindowEndMinute:   30,
	}

	cfg := reminderConfigFromRow(row)

	if cfg.Type != remind.Water {
		t.Errorf("expected type water, got %s", cfg.Type)
	}
	if !cfg.Enabled {
		t.Error("expected enabled config")
	}
	if cfg.IntervalMinutes != 120 {
		t.Errorf("expected interval 120, got %d", cfg.IntervalMinutes)
	}
	if cfg.WindowStart != (remind.TimeOfDay{Hour: 9}) {
		t.Errorf("unexpected window start %+v", cfg.WindowStart)
	}
	if cfg.WindowEnd != (remind.TimeOfDay{Hour: 21, Minute: 30}) {
		t.Errorf("unexpected window end %+v", cfg.WindowEnd)
	}
}

func TestReminderConfigFromRow_DefaultsRoundTrip(t *testing.T) {
	// A row seeded from a type's default config must map back to that config.
	for _, typ := range remind.Types {
		def := remind.DefaultConfig(typ)
		row := reminderSettingsRow{
			Type:              string(def.Type),
			Enabled:           def.Enabled,
			AtHour:            def.At.Hour,
			AtMinute:          def.At.Minute,
			IntervalMinutes:   def.IntervalMinutes,
			WindowStartHour:   def.WindowStart.Hour,
			WindowStartMinute: def.WindowStart.Minute,
			WindowEndHour:     def.WindowEnd.Hour,
			WindowEndMinute:   def.WindowEnd.Minute,
		}

		if got := reminderConfigFromRow(row); got != def {
			t.Errorf("%s: round trip mismatch: %+v != %+v", typ, got, def)
		}
	}
}
