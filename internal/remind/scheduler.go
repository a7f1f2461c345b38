package remind

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Scheduler owns the trigger registry: for every (user, type) key it tracks
// exactly the ids currently live in the device scheduler. All mutations go
// through Enable/Disable/Reconfigure, serialized per key, so two
// reconfigurations of the same type can never interleave while different
// types proceed independently.
type Scheduler struct {
	device DeviceScheduler
	store  ConfigStore

	mu      sync.Mutex
	entries map[regKey]*regEntry
}

type regKey struct {
	userID int
	typ    Type
}

// regEntry is one registry slot. Its lock is held for the full duration of
// an enable/disable/reconfigure, device round-trips included; ids mirror
// the live device registrations for the key.
type regEntry struct {
	mu      sync.Mutex
	enabled bool
	ids     []string
}

// New builds a Scheduler over the given device and store capabilities.
func New(device DeviceScheduler, store ConfigStore) *Scheduler {
	return &Scheduler{
		device:  device,
		store:   store,
		entries: make(map[regKey]*regEntry),
	}
}

// entry returns the registry slot for (userID, t), creating it on first use.
func (s *Scheduler) entry(userID int, t Type) *regEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := regKey{userID: userID, typ: t}
	e, ok := s.entries[k]
	if !ok {
		e = &regEntry{}
		s.entries[k] = e
	}
	return e
}

// Enable registers cfg's triggers for userID, first cancelling whatever the
// registry held for that type. The cancel-then-recreate order means a time
// or interval change while the reminder is on never leaves stale triggers
// behind. The config is persisted as enabled even when the device denies
// permission; registration is then retried on the next Enable.
func (s *Scheduler) Enable(ctx context.Context, userID int, cfg Config) (EnableResult, error) {
	times, err := cfg.TriggerTimes()
	if err != nil {
		return EnableResult{}, err
	}
	e := s.entry(userID, cfg.Type)
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.enableLocked(ctx, userID, cfg, times, e)
}

// Disable cancels every live trigger for (userID, t) and clears the
// registry slot. Disabling an already-disabled type is a no-op.
func (s *Scheduler) Disable(ctx context.Context, userID int, t Type) error {
	if !ValidType(t) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, t)
	}
	e := s.entry(userID, t)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled && len(e.ids) == 0 {
		return nil
	}
	s.cancelLocked(ctx, e)
	e.enabled = false

	if err := s.store.SetEnabled(ctx, userID, t, false); err != nil {
		return fmt.Errorf("save reminder state: %w", err)
	}
	if err := s.store.SaveTriggers(ctx, userID, t, nil); err != nil {
		return fmt.Errorf("save trigger registry: %w", err)
	}
	return nil
}

// Reconfigure applies a new config for its type. While enabled this is the
// same cancel-then-recreate path as Enable; while disabled only the stored
// config changes and nothing touches the device until the next Enable.
func (s *Scheduler) Reconfigure(ctx context.Context, userID int, cfg Config) (EnableResult, error) {
	times, err := cfg.TriggerTimes()
	if err != nil {
		return EnableResult{}, err
	}
	e := s.entry(userID, cfg.Type)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enabled {
		return s.enableLocked(ctx, userID, cfg, times, e)
	}
	cfg.Enabled = false
	if err := s.store.SaveConfig(ctx, userID, cfg); err != nil {
		return EnableResult{}, fmt.Errorf("save reminder config: %w", err)
	}
	return EnableResult{}, nil
}

// Triggers returns a copy of the registry slot for (userID, t).
func (s *Scheduler) Triggers(userID int, t Type) []string {
	e := s.entry(userID, t)
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.ids...)
}

// LiveTriggers resolves the registry slot against the device's scheduled
// list, returning full details for the user's triggers of one type.
func (s *Scheduler) LiveTriggers(ctx context.Context, userID int, t Type) ([]Trigger, error) {
	ids := s.Triggers(userID, t)
	out := []Trigger{}
	if len(ids) == 0 {
		return out, nil
	}
	all, err := s.device.Scheduled(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled triggers: %w", err)
	}
	mine := make(map[string]bool, len(ids))
	for _, id := range ids {
		mine[id] = true
	}
	for _, tr := range all {
		if mine[tr.ID] {
			out = append(out, tr)
		}
	}
	return out, nil
}

// Resync re-registers every enabled config from the store. Device
// registrations do not survive a restart, so any persisted ids are stale;
// each Enable overwrites them. Per-config failures are logged and skipped
// so one bad row cannot block the rest.
func (s *Scheduler) Resync(ctx context.Context) error {
	ucs, err := s.store.EnabledConfigs(ctx)
	if err != nil {
		return fmt.Errorf("load enabled reminder configs: %w", err)
	}
	for _, uc := range ucs {
		if _, err := s.Enable(ctx, uc.UserID, uc.Config); err != nil {
			log.Printf("[remind] resync user %d %s: %v", uc.UserID, uc.Config.Type, err)
		}
	}
	return nil
}

// enableLocked does the cancel-then-recreate dance. Caller holds e.mu.
// A permission denial stops the batch; any ids registered before the device
// started failing are still recorded so they can be cancelled later — a
// trigger must never be live without the registry knowing about it.
func (s *Scheduler) enableLocked(ctx context.Context, userID int, cfg Config, times []TimeOfDay, e *regEntry) (EnableResult, error) {
	s.cancelLocked(ctx, e)

	res := EnableResult{Requested: len(times)}
	content := Content(cfg.Type)
	ids := make([]string, 0, len(times))
	for _, at := range times {
		id, err := s.device.ScheduleDaily(ctx, userID, at, content)
		if errors.Is(err, ErrPermissionDenied) {
			res.PermissionDenied = true
			break
		}
		if err != nil {
			log.Printf("[remind] schedule %s %s for user %d: %v", cfg.Type, at, userID, err)
			continue
		}
		ids = append(ids, id)
	}
	e.ids = ids
	e.enabled = true
	res.Registered = len(ids)

	cfg.Enabled = true
	if err := s.store.SaveConfig(ctx, userID, cfg); err != nil {
		return res, fmt.Errorf("save reminder config: %w", err)
	}
	if err := s.store.SaveTriggers(ctx, userID, cfg.Type, ids); err != nil {
		return res, fmt.Errorf("save trigger registry: %w", err)
	}
	return res, nil
}

// cancelLocked cancels every id in e and empties the slot. Cancel failures
// are logged and the id dropped anyway: the device contract treats unknown
// ids as already gone. Caller holds e.mu.
func (s *Scheduler) cancelLocked(ctx context.Context, e *regEntry) {
	for _, id := range e.ids {
		if err := s.device.Cancel(ctx, id); err != nil {
			log.Printf("[remind] cancel trigger %s: %v", id, err)
		}
	}
	e.ids = nil
}
