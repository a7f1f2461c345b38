package remind

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// CronDevice is the production DeviceScheduler: each trigger becomes a
// daily cron entry whose job hands (userID, content) to the deliver
// callback. The server wires deliver to the notifications feed, making the
// cron engine this backend's local-notification subsystem. Trigger ids are
// opaque uuids; the cron entry mapping never leaves this type.
type CronDevice struct {
	cron    *cron.Cron
	deliver func(userID int, content string)

	mu      sync.Mutex
	entries map[string]cronTrigger
}

type cronTrigger struct {
	entryID cron.EntryID
	userID  int
	at      TimeOfDay
	content string
}

var _ DeviceScheduler = (*CronDevice)(nil)

// NewCronDevice builds a CronDevice delivering fired triggers through the
// given callback. Call Start before expecting any fires.
func NewCronDevice(deliver func(userID int, content string)) *CronDevice {
	return &CronDevice{
		cron:    cron.New(),
		deliver: deliver,
		entries: make(map[string]cronTrigger),
	}
}

// Start begins firing registered triggers.
func (d *CronDevice) Start() {
	d.cron.Start()
}

// Stop halts the cron engine and waits for any running job to finish.
func (d *CronDevice) Stop() {
	<-d.cron.Stop().Done()
}

// ScheduleDaily registers a cron entry firing every day at the given time.
func (d *CronDevice) ScheduleDaily(_ context.Context, userID int, at TimeOfDay, content string) (string, error) {
	spec := fmt.Sprintf("%d %d * * *", at.Minute, at.Hour)
	entryID, err := d.cron.AddFunc(spec, func() { d.deliver(userID, content) })
	if err != nil {
		return "", fmt.Errorf("add cron entry: %w", err)
	}

	id := uuid.NewString()
	d.mu.Lock()
	d.entries[id] = cronTrigger{entryID: entryID, userID: userID, at: at, content: content}
	d.mu.Unlock()
	return id, nil
}

// Cancel removes the trigger's cron entry. Unknown ids are already gone.
func (d *CronDevice) Cancel(_ context.Context, id string) error {
	d.mu.Lock()
	ct, ok := d.entries[id]
	if ok {
		delete(d.entries, id)
	}
	d.mu.Unlock()

	if ok {
		d.cron.Remove(ct.entryID)
	}
	return nil
}

// Scheduled lists the user's live triggers sorted by time of day.
func (d *CronDevice) Scheduled(_ context.Context, userID int) ([]Trigger, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := []Trigger{}
	for id, ct := range d.entries {
		if ct.userID != userID {
			continue
		}
		out = append(out, Trigger{ID: id, At: ct.at, Content: ct.content})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].At.minutes() < out[j].At.minutes()
	})
	return out, nil
}
