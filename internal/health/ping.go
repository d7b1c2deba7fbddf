package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthPinger returns nil when the component is reachable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// PingChecker pings a HealthPinger, bounding each ping by a timeout.
type PingChecker struct {
	name    string
	target  HealthPinger
	healthy atomic.Int32
	timeout time.Duration
	log     zerolog.Logger
}

func NewPingChecker(name string, target HealthPinger, log zerolog.Logger, timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PingChecker{name: name, target: target, timeout: timeout, log: log}
}

func (c *PingChecker) Name() string    { return c.name }
func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

func (c *PingChecker) ping(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.target.HealthPing(checkCtx); err != nil {
		if c.healthy.Swap(0) == 1 {
			c.log.Warn().Str("checker", c.name).Err(err).Msg("health check failed")
		}
		return
	}
	c.healthy.Store(1)
}

func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.ping(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.ping(ctx)
		}
	}
}

// Link is anything that knows whether it is connected.
type Link interface {
	IsConnected() bool
}

// LinkChecker mirrors a link's connection state without reconnecting it.
type LinkChecker struct {
	name    string
	link    Link
	healthy atomic.Int32
}

func NewLinkChecker(name string, link Link) *LinkChecker {
	return &LinkChecker{name: name, link: link}
}

func (c *LinkChecker) Name() string    { return c.name }
func (c *LinkChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

func (c *LinkChecker) observe() {
	if c.link.IsConnected() {
		c.healthy.Store(1)
	} else {
		c.healthy.Store(0)
	}
}

func (c *LinkChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.observe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.observe()
		}
	}
}
