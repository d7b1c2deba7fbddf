// Package health watches the serial link and the Ollama service so the status
// endpoint and the logs can say which one is down.
package health

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Checker reports the last observed state of one link.
type Checker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// Monitor folds the link checkers into a single up or degraded flag.
type Monitor struct {
	checkers []Checker
	up       atomic.Bool
	down     []string // only touched by evaluate
	log      zerolog.Logger
}

func NewMonitor(log zerolog.Logger, checkers ...Checker) *Monitor {
	return &Monitor{checkers: checkers, log: log}
}

// IsHealthy is true when every link was up at the last evaluation.
func (m *Monitor) IsHealthy() bool { return m.up.Load() }

// Components maps each checker name to its current state.
func (m *Monitor) Components() map[string]bool {
	out := make(map[string]bool, len(m.checkers))
	for _, c := range m.checkers {
		out[c.Name()] = c.IsHealthy()
	}
	return out
}

// Start evaluates the links now and then every interval until ctx is done.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.evaluate()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// evaluate logs each link that went down or came back since the last call.
func (m *Monitor) evaluate() {
	var down []string
	for _, c := range m.checkers {
		if !c.IsHealthy() {
			down = append(down, c.Name())
		}
	}
	for _, name := range down {
		if !slices.Contains(m.down, name) {
			m.log.Warn().Str("link", name).Msg("link down")
		}
	}
	for _, name := range m.down {
		if !slices.Contains(down, name) {
			m.log.Info().Str("link", name).Msg("link restored")
		}
	}
	m.down = down
	m.up.Store(len(down) == 0)
}
