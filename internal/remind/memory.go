package remind

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryDevice is an in-memory DeviceScheduler for tests: permission can be
// revoked, individual registrations can be scripted to fail, and every
// cancel is counted.
type MemoryDevice struct {
	mu       sync.Mutex
	granted  bool
	nextID   int
	calls    int
	cancels  int
	failures map[int]error
	triggers map[string]memTrigger
}

type memTrigger struct {
	userID  int
	trigger Trigger
}

var _ DeviceScheduler = (*MemoryDevice)(nil)

// NewMemoryDevice returns a device with notification permission granted.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{
		granted:  true,
		failures: make(map[int]error),
		triggers: make(map[string]memTrigger),
	}
}

// SetPermission flips the simulated notification permission.
func (d *MemoryDevice) SetPermission(granted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.granted = granted
}

// FailCall makes the n-th ScheduleDaily call (1-based, counted over the
// device's lifetime) return err.
func (d *MemoryDevice) FailCall(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[n] = err
}

// Cancels returns how many Cancel calls the device has seen.
func (d *MemoryDevice) Cancels() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancels
}

// ScheduleDaily registers a trigger unless permission is revoked or this
// call number was scripted to fail.
func (d *MemoryDevice) ScheduleDaily(_ context.Context, userID int, at TimeOfDay, content string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if !d.granted {
		return "", ErrPermissionDenied
	}
	if err, ok := d.failures[d.calls]; ok {
		return "", err
	}

	d.nextID++
	id := fmt.Sprintf("trg-%d", d.nextID)
	d.triggers[id] = memTrigger{
		userID:  userID,
		trigger: Trigger{ID: id, At: at, Content: content},
	}
	return id, nil
}

// Cancel removes a trigger. Unknown ids count as cancelled too.
func (d *MemoryDevice) Cancel(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancels++
	delete(d.triggers, id)
	return nil
}

// Scheduled lists the user's live triggers sorted by time of day.
func (d *MemoryDevice) Scheduled(_ context.Context, userID int) ([]Trigger, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := []Trigger{}
	for _, mt := range d.triggers {
		if mt.userID != userID {
			continue
		}
		out = append(out, mt.trigger)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].At.minutes() < out[j].At.minutes()
	})
	return out, nil
}

// MemoryStore is an in-memory ConfigStore for tests. Saves can be forced to
// fail to exercise persistence-error paths.
type MemoryStore struct {
	mu       sync.Mutex
	saveErr  error
	configs  map[int]map[Type]Config
	triggers map[int]map[Type][]string
}

var _ ConfigStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs:  make(map[int]map[Type]Config),
		triggers: make(map[int]map[Type][]string),
	}
}

// FailWith makes every subsequent save return err; pass nil to heal.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// StoredConfig returns the persisted config for (userID, t), if any.
func (s *MemoryStore) StoredConfig(userID int, t Type) (Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[userID][t]
	return cfg, ok
}

// StoredTriggers returns the persisted registry slot for (userID, t).
func (s *MemoryStore) StoredTriggers(userID int, t Type) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.triggers[userID][t]...)
}

func (s *MemoryStore) SaveConfig(_ context.Context, userID int, cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.configs[userID] == nil {
		s.configs[userID] = make(map[Type]Config)
	}
	s.configs[userID][cfg.Type] = cfg
	return nil
}

func (s *MemoryStore) SaveTriggers(_ context.Context, userID int, t Type, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.triggers[userID] == nil {
		s.triggers[userID] = make(map[Type][]string)
	}
	s.triggers[userID][t] = append([]string(nil), ids...)
	return nil
}

func (s *MemoryStore) SetEnabled(_ context.Context, userID int, t Type, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	cfg, ok := s.configs[userID][t]
	if !ok {
		cfg = DefaultConfig(t)
	}
	cfg.Enabled = enabled
	if s.configs[userID] == nil {
		s.configs[userID] = make(map[Type]Config)
	}
	s.configs[userID][t] = cfg
	return nil
}

func (s *MemoryStore) EnabledConfigs(_ context.Context) ([]UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []UserConfig
	for userID, byType := range s.configs {
		for _, cfg := range byType {
			if cfg.Enabled {
				out = append(out, UserConfig{UserID: userID, Config: cfg})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Config.Type < out[j].Config.Type
	})
	return out, nil
}
