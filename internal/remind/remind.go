// Package remind turns per-type reminder settings into scheduled daily
// notification triggers. The scheduler tracks every trigger id it registers
// so a type can be reconfigured or disabled without touching the others,
// and talks to the outside world only through two capabilities: a
// DeviceScheduler that owns the actual trigger registrations and a
// ConfigStore that persists settings and registry bookkeeping.
package remind

import (
	"context"
	"errors"
	"fmt"
)

// Type identifies one of the four reminder kinds a user can configure.
type Type string

const (
	Water   Type = "water"
	Meal    Type = "meal"
	Workout Type = "workout"
	Sleep   Type = "sleep"
)

// Types lists every reminder type in display order.
var Types = []Type{Water, Meal, Workout, Sleep}

// defaultContents is the notification body per reminder type. This is the
// single source of truth for valid types — also used for input validation.
var defaultContents = map[Type]string{
	Water:   "Time to drink some water.",
	Meal:    "Meal time — log what you eat.",
	Workout: "Workout reminder: today's session is waiting.",
	Sleep:   "Wind down, bedtime is near.",
}

var (
	// ErrInvalidConfig covers every reminder-config validation failure:
	// unknown type, non-positive interval, window start after end,
	// out-of-range clock times.
	ErrInvalidConfig = errors.New("invalid reminder config")

	// ErrPermissionDenied is returned by a DeviceScheduler whose host
	// refuses notification registration. Recoverable: the config stays
	// saved and registration is retried on the next Enable.
	ErrPermissionDenied = errors.New("notification permission denied")
)

// ValidType reports whether t is a known reminder type.
func ValidType(t Type) bool {
	_, ok := defaultContents[t]
	return ok
}

// Content returns the notification body sent for triggers of type t.
func Content(t Type) string {
	return defaultContents[t]
}

// TimeOfDay is a clock time with minute precision.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func timeFromMinutes(m int) TimeOfDay {
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

// Trigger describes one live registration in the device scheduler.
type Trigger struct {
	ID      string    `json:"id"`
	At      TimeOfDay `json:"at"`
	Content string    `json:"content"`
}

// DeviceScheduler is the notification capability triggers are registered
// against. Ids are opaque and never durable across a process restart; any
// host platform's local-notification API fits behind this.
type DeviceScheduler interface {
	// ScheduleDaily registers a trigger that fires every day at the given
	// time and returns its id.
	ScheduleDaily(ctx context.Context, userID int, at TimeOfDay, content string) (string, error)
	// Cancel removes a registered trigger. Cancelling an id the device no
	// longer knows is not an error.
	Cancel(ctx context.Context, id string) error
	// Scheduled lists the user's live triggers.
	Scheduled(ctx context.Context, userID int) ([]Trigger, error)
}

// ConfigStore persists reminder configs and the trigger-id registry.
// Written on every toggle or reconfigure; read back once at startup.
type ConfigStore interface {
	SaveConfig(ctx context.Context, userID int, cfg Config) error
	SaveTriggers(ctx context.Context, userID int, t Type, ids []string) error
	SetEnabled(ctx context.Context, userID int, t Type, enabled bool) error
	// EnabledConfigs returns every enabled config across all users, for
	// re-registration after a restart.
	EnabledConfigs(ctx context.Context) ([]UserConfig, error)
}

// UserConfig pairs a config with its owner, for startup resync.
type UserConfig struct {
	UserID int
	Config Config
}

// EnableResult reports what an Enable call achieved against the device.
type EnableResult struct {
	Requested        int  `json:"requested"`
	Registered       int  `json:"registered"`
	PermissionDenied bool `json:"permission_denied"`
}
