// Package scheduler delivers due reminders from the reminder store.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/config"
	"github.com/saraaltoom/Travis-Home-AI/internal/metrics"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

// FallbackMessage is spoken for a due reminder that carries no text.
const FallbackMessage = "You have a reminder now."

// DueSource removes and returns reminders due at now.
type DueSource interface {
	TakeDue(now time.Time) ([]store.Reminder, error)
}

// DeliverFunc receives the text of one due reminder.
type DeliverFunc func(message string)

// Config controls the tick period.
type Config struct {
	Interval time.Duration // clamped to (0, config.MaxReminderTick]
}

// Scheduler polls the store and hands due reminders to a delivery callback.
type Scheduler struct {
	src     DueSource
	deliver DeliverFunc
	cfg     Config
	now     func() time.Time
	log     zerolog.Logger
}

// New constructs a Scheduler. It does nothing until Run is called.
func New(src DueSource, deliver DeliverFunc, cfg Config, log zerolog.Logger) *Scheduler {
	if cfg.Interval <= 0 || cfg.Interval > config.MaxReminderTick {
		cfg.Interval = config.MaxReminderTick
	}
	return &Scheduler{
		src:     src,
		deliver: deliver,
		cfg:     cfg,
		now:     time.Now,
		log:     log.With().Str("worker", "reminders").Logger(),
	}
}

// Run ticks once immediately and then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.cfg.Interval).Msg("reminder scheduler starting")
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("reminder scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick delivers every reminder due now, in store order, and returns how many
// were delivered. A failing callback does not stop the rest.
func (s *Scheduler) Tick() int {
	due, err := s.src.TakeDue(s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("take due reminders")
		return 0
	}
	delivered := 0
	for _, r := range due {
		msg := r.Message
		if msg == "" {
			msg = FallbackMessage
		}
		if err := s.safeDeliver(msg); err != nil {
			s.log.Error().Err(err).Str("uid", r.UID).Msg("reminder delivery failed")
			continue
		}
		delivered++
	}
	if delivered > 0 {
		metrics.RemindersDeliveredTotal.Add(float64(delivered))
		s.log.Debug().Int("delivered", delivered).Msg("reminders delivered")
	}
	return delivered
}

func (s *Scheduler) safeDeliver(msg string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in delivery: %v", r)
		}
	}()
	s.deliver(msg)
	return nil
}
