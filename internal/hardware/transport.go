// Package hardware owns the serial link to the home microcontroller.
package hardware

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EnvPort overrides the configured port; it is re-read on every connect.
const EnvPort = "TRAVIS_SERIAL_PORT"

// ErrNotConnected is returned when a send finds no usable port even after
// one reconnect attempt.
var ErrNotConnected = errors.New("serial link not connected")

// descriptorKeywords mark USB-serial adapters commonly found on Arduino
// compatible boards.
var descriptorKeywords = []string{
	"arduino", "usb serial", "usb-serial", "ch340", "cp210", "silabs", "ftdi",
	"vid=2341", "vid=1a86", "vid=10c4", "vid=0403",
}

// Port is the subset of a serial port the transport uses.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Drain() error
	ResetInputBuffer() error
	ResetOutputBuffer() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// PortInfo describes an enumerated port.
type PortInfo struct {
	Name        string
	Description string
}

// Opener opens a port by name.
type Opener func(name string, baud int) (Port, error)

// Lister enumerates candidate ports.
type Lister func() ([]PortInfo, error)

// Options configures a Transport. Zero values use the real serial stack.
type Options struct {
	Port   string
	Baud   int
	Settle time.Duration
	Open   Opener
	List   Lister
	Sleep  func(time.Duration)
	Log    zerolog.Logger
}

type linkState int

const (
	disconnected linkState = iota
	connected
)

func (s linkState) String() string {
	if s == connected {
		return "connected"
	}
	return "disconnected"
}

// Transport is a newline-framed serial link with lazy reconnect.
type Transport struct {
	mu      sync.Mutex
	opts    Options
	state   linkState
	port    Port
	name    string
	pending []byte
}

// New builds a Transport and makes one connection attempt. A failed attempt
// is not an error; the next Send tries again.
func New(opts Options) *Transport {
	if opts.Baud <= 0 {
		opts.Baud = 9600
	}
	if opts.Open == nil {
		opts.Open = OpenSerial
	}
	if opts.List == nil {
		opts.List = ListPorts
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	opts.Log = opts.Log.With().Str("component", "serial").Logger()

	t := &Transport{opts: opts}
	t.mu.Lock()
	t.connectLocked()
	t.mu.Unlock()
	return t
}

// IsConnected reports whether a port is open.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == connected
}

// PortName returns the name of the open port, or "".
func (t *Transport) PortName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != connected {
		return ""
	}
	return t.name
}

// EnsureConnected opens a port if none is open.
func (t *Transport) EnsureConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connectLocked()
}

func (t *Transport) connectLocked() bool {
	if t.state == connected {
		return true
	}
	preferred := t.opts.Port
	if env := strings.TrimSpace(os.Getenv(EnvPort)); env != "" {
		preferred = env
	}

	tried := map[string]bool{}
	if preferred != "" {
		tried[preferred] = true
		if t.tryOpenLocked(preferred) {
			return true
		}
	}

	ports, err := t.opts.List()
	if err != nil {
		t.opts.Log.Debug().Err(err).Msg("Port enumeration failed")
		return false
	}
	for _, name := range candidates(ports) {
		if tried[name] {
			continue
		}
		tried[name] = true
		if t.tryOpenLocked(name) {
			return true
		}
	}
	t.opts.Log.Warn().Str("port", preferred).Int("candidates", len(ports)).Msg("No serial port available")
	return false
}

// candidates orders enumerated ports: descriptor matches first if there are
// any, otherwise every port in enumeration order.
func candidates(ports []PortInfo) []string {
	var preferred, all []string
	for _, p := range ports {
		all = append(all, p.Name)
		desc := strings.ToLower(p.Description)
		for _, k := range descriptorKeywords {
			if strings.Contains(desc, k) {
				preferred = append(preferred, p.Name)
				break
			}
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return all
}

func (t *Transport) tryOpenLocked(name string) bool {
	p, err := t.opts.Open(name, t.opts.Baud)
	if err != nil {
		t.opts.Log.Debug().Err(err).Str("port", name).Msg("Open failed")
		return false
	}
	// boards reset on open and print boot noise
	if t.opts.Settle > 0 {
		t.opts.Sleep(t.opts.Settle)
	}
	if err := p.ResetInputBuffer(); err != nil {
		t.opts.Log.Debug().Err(err).Msg("Reset input buffer failed")
	}
	if err := p.ResetOutputBuffer(); err != nil {
		t.opts.Log.Debug().Err(err).Msg("Reset output buffer failed")
	}
	t.port, t.name, t.state, t.pending = p, name, connected, nil
	t.opts.Log.Info().Str("port", name).Int("baud", t.opts.Baud).Msg("Serial link connected")
	return true
}

func (t *Transport) dropLocked(reason error) {
	if t.port != nil {
		_ = t.port.Close()
	}
	t.opts.Log.Warn().Err(reason).Str("port", t.name).Msg("Serial link lost")
	t.port, t.state, t.pending = nil, disconnected, nil
}

// Send writes line plus a newline. When disconnected it makes exactly one
// reconnect attempt; if that fails the line is dropped. A write failure
// leaves the link disconnected for the next call to repair.
func (t *Transport) Send(line string) error {
	payload := strings.TrimSpace(line)
	if payload == "" {
		return fmt.Errorf("refusing to send an empty line")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != connected && !t.connectLocked() {
		t.opts.Log.Warn().Str("line", payload).Msg("Serial send dropped")
		return ErrNotConnected
	}
	if _, err := t.port.Write([]byte(payload + "\n")); err != nil {
		t.dropLocked(err)
		return fmt.Errorf("serial write: %w", err)
	}
	if err := t.port.Drain(); err != nil {
		t.opts.Log.Debug().Err(err).Msg("Drain failed")
	}
	t.opts.Log.Debug().Str("line", payload).Msg("Serial sent")
	return nil
}

// ReadLine returns the first newline-terminated line received within
// timeout, without the terminator, or "" on timeout.
func (t *Transport) ReadLine(timeout time.Duration) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != connected {
		return ""
	}
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 256)
	for {
		if i := bytes.IndexByte(t.pending, '\n'); i >= 0 {
			line := strings.TrimRight(string(t.pending[:i]), "\r")
			t.pending = t.pending[i+1:]
			return strings.TrimSpace(line)
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ""
		}
		if remaining > 50*time.Millisecond {
			remaining = 50 * time.Millisecond
		}
		if err := t.port.SetReadTimeout(remaining); err != nil {
			t.dropLocked(err)
			return ""
		}
		n, err := t.port.Read(buf)
		if err != nil {
			t.dropLocked(err)
			return ""
		}
		t.pending = append(t.pending, buf[:n]...)
	}
}

// Close releases the port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port, t.state, t.pending = nil, disconnected, nil
	return err
}
