// Package calsync turns upcoming remote calendar events into deduplicated
// reminders.
package calsync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/config"
	"github.com/saraaltoom/Travis-Home-AI/internal/gcal"
	"github.com/saraaltoom/Travis-Home-AI/internal/metrics"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

const source = "gcal"

// EventSource lists upcoming events.
type EventSource interface {
	Upcoming(ctx context.Context, limit int) ([]gcal.Event, error)
}

// ReminderSink inserts a reminder unless its uid is already stored.
type ReminderSink interface {
	AddUnique(uid, message string, at time.Time) (bool, error)
}

// Config controls polling.
type Config struct {
	Interval      time.Duration // floored at config.MinCalendarSync
	MinutesBefore int
	Limit         int
}

// Worker polls an EventSource and writes reminders to a ReminderSink.
type Worker struct {
	src  EventSource
	sink ReminderSink
	cfg  Config
	now  func() time.Time
	log  zerolog.Logger
}

// NewWorker constructs a Worker.
func NewWorker(src EventSource, sink ReminderSink, cfg Config, log zerolog.Logger) *Worker {
	if cfg.Interval < config.MinCalendarSync {
		cfg.Interval = config.MinCalendarSync
	}
	if cfg.MinutesBefore < 0 {
		cfg.MinutesBefore = 0
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 15
	}
	return &Worker{src: src, sink: sink, cfg: cfg, now: time.Now, log: log.With().Str("worker", "calsync").Logger()}
}

// Run syncs immediately and then every interval until ctx is done. A failed
// iteration is logged and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.cfg.Interval).Int("minutes_before", w.cfg.MinutesBefore).Msg("calendar sync starting")
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := w.syncSafely(ctx); err != nil {
			w.log.Error().Err(err).Msg("calendar sync")
		}
		select {
		case <-ctx.Done():
			w.log.Info().Msg("calendar sync stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) syncSafely(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in calendar sync: %v", r)
		}
	}()
	_, err = w.SyncOnce(ctx)
	return err
}

// SyncOnce runs one poll and returns how many reminders were added.
func (w *Worker) SyncOnce(ctx context.Context) (int, error) {
	events, err := w.src.Upcoming(ctx, w.cfg.Limit)
	if err != nil {
		return 0, err
	}
	now := w.now()
	added := 0
	for _, ev := range events {
		for _, r := range Plan(ev, now, w.cfg.MinutesBefore) {
			ok, err := w.sink.AddUnique(r.UID, r.Message, r.At)
			if err != nil {
				w.log.Warn().Err(err).Str("uid", r.UID).Msg("add reminder")
				continue
			}
			if ok {
				added++
				metrics.CalendarSyncRemindersTotal.WithLabelValues(r.kind).Inc()
			}
		}
	}
	if added > 0 {
		w.log.Info().Int("added", added).Int("events", len(events)).Msg("calendar reminders synced")
	}
	return added, nil
}

// Planned is a reminder derived from one event.
type Planned struct {
	UID     string
	Message string
	At      time.Time
	kind    string
}

// Plan returns the reminders for ev as seen at now: one minutesBefore ahead
// of the start while that point is still in the future, and one at the
// start. Events without a usable start or already started yield none.
func Plan(ev gcal.Event, now time.Time, minutesBefore int) []Planned {
	start, ok := ev.LocalStart()
	if !ok || !start.After(now) {
		return nil
	}
	var out []Planned
	before := start.Add(-time.Duration(minutesBefore) * time.Minute)
	if before.After(now) {
		out = append(out, Planned{
			UID:     uid(ev.ID, start, fmt.Sprintf("minus%d", minutesBefore), fmt.Sprintf("m%d", minutesBefore)),
			Message: fmt.Sprintf("In %d minutes: %s at %s", minutesBefore, ev.Title(), store.Clock(start)),
			At:      before,
			kind:    "before",
		})
	}
	out = append(out, Planned{
		UID:     uid(ev.ID, start, "start", "start"),
		Message: "Event starting now: " + ev.Title(),
		At:      start,
		kind:    "start",
	})
	return out
}

func uid(id string, start time.Time, suffix, syntheticSuffix string) string {
	if id == "" {
		return fmt.Sprintf("%s:unknown:%d:%s", source, start.Unix(), syntheticSuffix)
	}
	return fmt.Sprintf("%s:%s:%s", source, id, suffix)
}
