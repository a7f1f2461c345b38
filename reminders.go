package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rh/ai-fitness-go-api/internal/remind"
)

/* ─── Postgres config store ───────────────────────────────────────────── */

// pgReminderStore persists reminder configs and the trigger-id registry in
// the reminder_settings table, one row per (user, type).
type pgReminderStore struct {
	db *pgxpool.Pool
}

var _ remind.ConfigStore = (*pgReminderStore)(nil)

func newPGReminderStore(db *pgxpool.Pool) *pgReminderStore {
	return &pgReminderStore{db: db}
}

func (s *pgReminderStore) SaveConfig(ctx context.Context, userID int, cfg remind.Config) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO reminder_settings
			(user_id, type, enabled, at_hour, at_minute, interval_minutes,
			 window_start_hour, window_start_minute, window_end_hour, window_end_minute, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (user_id, type) DO UPDATE SET
			enabled             = EXCLUDED.enabled,
			at_hour             = EXCLUDED.at_hour,
			at_minute           = EXCLUDED.at_minute,
			interval_minutes    = EXCLUDED.interval_minutes,
			window_start_hour   = EXCLUDED.window_start_hour,
			window_start_minute = EXCLUDED.window_start_minute,
			window_end_hour     = EXCLUDED.window_end_hour,
			window_end_minute   = EXCLUDED.window_end_minute,
			updated_at          = now()`,
		userID, string(cfg.Type), cfg.Enabled, cfg.At.Hour, cfg.At.Minute, cfg.IntervalMinutes,
		cfg.WindowStart.Hour, cfg.WindowStart.Minute, cfg.WindowEnd.Hour, cfg.WindowEnd.Minute)
	return err
}

func (s *pgReminderStore) SaveTriggers(ctx context.Context, userID int, t remind.Type, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	// The insert arm only fires for a row that was never configured; it gets
	// the type's default config alongside the registry.
	def := remind.DefaultConfig(t)
	_, err = s.db.Exec(ctx, `
		INSERT INTO reminder_settings
			(user_id, type, enabled, at_hour, at_minute, interval_minutes,
			 window_start_hour, window_start_minute, window_end_hour, window_end_minute,
			 trigger_ids, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (user_id, type) DO UPDATE SET
			trigger_ids = EXCLUDED.trigger_ids,
			updated_at  = now()`,
		userID, string(t), def.Enabled, def.At.Hour, def.At.Minute, def.IntervalMinutes,
		def.WindowStart.Hour, def.WindowStart.Minute, def.WindowEnd.Hour, def.WindowEnd.Minute,
		string(raw))
	return err
}

func (s *pgReminderStore) SetEnabled(ctx context.Context, userID int, t remind.Type, enabled bool) error {
	def := remind.DefaultConfig(t)
	_, err := s.db.Exec(ctx, `
		INSERT INTO reminder_settings
			(user_id, type, enabled, at_hour, at_minute, interval_minutes,
			 window_start_hour, window_start_minute, window_end_hour, window_end_minute, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (user_id, type) DO UPDATE SET
			enabled    = EXCLUDED.enabled,
			updated_at = now()`,
		userID, string(t), enabled, def.At.Hour, def.At.Minute, def.IntervalMinutes,
		def.WindowStart.Hour, def.WindowStart.Minute, def.WindowEnd.Hour, def.WindowEnd.Minute)
	return err
}

func (s *pgReminderStore) EnabledConfigs(ctx context.Context) ([]remind.UserConfig, error) {
	rows, err := s.db.Query(ctx,
		"SELECT * FROM reminder_settings WHERE enabled ORDER BY user_id, type")
	if err != nil {
		return nil, err
	}
	settings, err := pgx.CollectRows(rows, pgx.RowToStructByName[reminderSettingsRow])
	if err != nil {
		return nil, err
	}

	ucs := make([]remind.UserConfig, 0, len(settings))
	for _, r := range settings {
		ucs = append(ucs, remind.UserConfig{UserID: r.UserID, Config: reminderConfigFromRow(r)})
	}
	return ucs, nil
}

// reminderConfigFromRow maps a settings row onto the scheduler's config type.
func reminderConfigFromRow(r reminderSettingsRow) remind.Config {
	return remind.Config{
		Type:            remind.Type(r.Type),
		Enabled:         r.Enabled,
		At:              remind.TimeOfDay{Hour: r.AtHour, Minute: r.AtMinute},
		IntervalMinutes: r.IntervalMinutes,
		WindowStart:     remind.TimeOfDay{Hour: r.WindowStartHour, Minute: r.WindowStartMinute},
		WindowEnd:       remind.TimeOfDay{Hour: r.WindowEndHour, Minute: r.WindowEndMinute},
	}
}

/* ─── Handlers ────────────────────────────────────────────────────────── */

// getReminderConfig loads one reminder config, seeding the type's default
// (disabled) row on first access.
func (h *Handler) getReminderConfig(c *gin.Context, userID int, typ remind.Type) (remind.Config, error) {
	r, err := queryOne[reminderSettingsRow](h.db, c,
		"SELECT * FROM reminder_settings WHERE user_id = @userID AND type = @type",
		pgx.NamedArgs{"userID": userID, "type": string(typ)})
	if err == nil {
		return reminderConfigFromRow(r), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return remind.Config{}, err
	}

	cfg := remind.DefaultConfig(typ)
	if err := h.reminderStore.SaveConfig(c, userID, cfg); err != nil {
		return remind.Config{}, err
	}
	return cfg, nil
}

// listReminders returns the user's settings for all four reminder types,
// creating default (disabled) rows on first load.
// GET /api/reminders.
func (h *Handler) listReminders(c *gin.Context) {
	userID := c.GetInt("user_id")

	configs := make([]remind.Config, 0, len(remind.Types))
	for _, t := range remind.Types {
		cfg, err := h.getReminderConfig(c, userID, t)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to load reminder settings")
			return
		}
		configs = append(configs, cfg)
	}
	c.JSON(http.StatusOK, configs)
}

// updateReminder changes one reminder's schedule. While the reminder is on,
// its triggers are cancelled and recreated so the old schedule never
// lingers; while off, only the stored config changes.
// PUT /api/reminders/:type. All body fields optional.
func (h *Handler) updateReminder(c *gin.Context) {
	userID := c.GetInt("user_id")
	typ := remind.Type(c.Param("type"))
	if !remind.ValidType(typ) {
		apiError(c, http.StatusBadRequest, "unknown reminder type")
		return
	}

	var body putReminderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.getReminderConfig(c, userID, typ)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load reminder settings")
		return
	}

	if body.Hour != nil {
		cfg.At.Hour = *body.Hour
	}
	if body.Minute != nil {
		cfg.At.Minute = *body.Minute
	}
	if body.IntervalMinutes != nil {
		cfg.IntervalMinutes = *body.IntervalMinutes
	}
	if body.StartHour != nil {
		cfg.WindowStart.Hour = *body.StartHour
	}
	if body.StartMinute != nil {
		cfg.WindowStart.Minute = *body.StartMinute
	}
	if body.EndHour != nil {
		cfg.WindowEnd.Hour = *body.EndHour
	}
	if body.EndMinute != nil {
		cfg.WindowEnd.Minute = *body.EndMinute
	}

	result, err := h.reminders.Reconfigure(c, userID, cfg)
	if err != nil {
		if errors.Is(err, remind.ErrInvalidConfig) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to save reminder")
		return
	}

	updated, err := h.getReminderConfig(c, userID, typ)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load reminder settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": updated, "result": result})
}

// enableReminder turns a reminder on, registering its triggers. The response
// reports how many of the derived trigger times were actually registered and
// whether the notification host denied permission (the config stays enabled
// for a later retry in that case).
// POST /api/reminders/:type/enable.
func (h *Handler) enableReminder(c *gin.Context) {
	userID := c.GetInt("user_id")
	typ := remind.Type(c.Param("type"))
	if !remind.ValidType(typ) {
		apiError(c, http.StatusBadRequest, "unknown reminder type")
		return
	}

	cfg, err := h.getReminderConfig(c, userID, typ)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load reminder settings")
		return
	}

	result, err := h.reminders.Enable(c, userID, cfg)
	if err != nil {
		if errors.Is(err, remind.ErrInvalidConfig) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to enable reminder")
		return
	}

	cfg.Enabled = true
	c.JSON(http.StatusOK, gin.H{"config": cfg, "result": result})
}

// disableReminder turns a reminder off and cancels its triggers. Disabling
// an already-disabled reminder is a no-op.
// POST /api/reminders/:type/disable.
func (h *Handler) disableReminder(c *gin.Context) {
	userID := c.GetInt("user_id")
	typ := remind.Type(c.Param("type"))

	if err := h.reminders.Disable(c, userID, typ); err != nil {
		if errors.Is(err, remind.ErrInvalidConfig) {
			apiError(c, http.StatusBadRequest, "unknown reminder type")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to disable reminder")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder disabled"})
}

// listReminderTriggers returns the live triggers currently registered for
// one reminder type.
// GET /api/reminders/:type/triggers.
func (h *Handler) listReminderTriggers(c *gin.Context) {
	userID := c.GetInt("user_id")
	typ := remind.Type(c.Param("type"))
	if !remind.ValidType(typ) {
		apiError(c, http.StatusBadRequest, "unknown reminder type")
		return
	}

	triggers, err := h.reminders.LiveTriggers(c, userID, typ)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to list triggers")
		return
	}
	c.JSON(http.StatusOK, triggers)
}
