package remind

import "fmt"

// Config is one user's settings for a single reminder type. Water reminders
// repeat across an interval window; meal, workout and sleep fire once at a
// daily time.
type Config struct {
	Type            Type      `json:"type"`
	Enabled         bool      `json:"enabled"`
	At              TimeOfDay `json:"at"`               // meal/workout/sleep
	IntervalMinutes int       `json:"interval_minutes"` // water
	WindowStart     TimeOfDay `json:"window_start"`     // water
	WindowEnd       TimeOfDay `json:"window_end"`       // water
}

// Validate rejects configs that could never produce a sane trigger set.
// Always called before any device registration, so a bad config has no
// side effects.
func (c Config) Validate() error {
	if !ValidType(c.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, c.Type)
	}
	if c.Type == Water {
		if c.IntervalMinutes <= 0 {
			return fmt.Errorf("%w: interval_minutes must be positive, got %d", ErrInvalidConfig, c.IntervalMinutes)
		}
		if !c.WindowStart.valid() || !c.WindowEnd.valid() {
			return fmt.Errorf("%w: window times must be within 00:00-23:59", ErrInvalidConfig)
		}
		if c.WindowStart.minutes() > c.WindowEnd.minutes() {
			return fmt.Errorf("%w: window start %s is after end %s", ErrInvalidConfig, c.WindowStart, c.WindowEnd)
		}
		return nil
	}
	if !c.At.valid() {
		return fmt.Errorf("%w: time must be within 00:00-23:59", ErrInvalidConfig)
	}
	return nil
}

// TriggerTimes derives the daily trigger times for this config: the single
// daily time for meal/workout/sleep, or one time per interval step from
// window start through window end inclusive for water. The water count is
// floor((end-start)/interval) + 1.
func (c Config) TriggerTimes() ([]TimeOfDay, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Type != Water {
		return []TimeOfDay{c.At}, nil
	}
	var times []TimeOfDay
	for m := c.WindowStart.minutes(); m <= c.WindowEnd.minutes(); m += c.IntervalMinutes {
		times = append(times, timeFromMinutes(m))
	}
	return times, nil
}

// DefaultConfig returns the out-of-the-box (disabled) config for a type:
// water every two hours across a 09:00-21:00 day, meal at 13:00, workout
// at 18:00, sleep at 22:30.
func DefaultConfig(t Type) Config {
	switch t {
	case Water:
		return Config{
			Type:            Water,
			IntervalMinutes: 120,
			WindowStart:     TimeOfDay{Hour: 9},
			WindowEnd:       TimeOfDay{Hour: 21},
		}
	case Meal:
		return Config{Type: Meal, At: TimeOfDay{Hour: 13}}
	case Workout:
		return Config{Type: Workout, At: TimeOfDay{Hour: 18}}
	case Sleep:
		return Config{Type: Sleep, At: TimeOfDay{Hour: 22, Minute: 30}}
	}
	return Config{Type: t}
}
