// Package device encodes device actions into the line protocol spoken by
// the home microcontroller.
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/metrics"
)

// Wire commands.
const (
	CmdOpenDoor       = "open door"
	CmdCloseDoor      = "close door"
	CmdLightOnTop     = "light on top"
	CmdLightOnBottom  = "light on bottom"
	CmdLightOffTop    = "light off top"
	CmdLightOffBottom = "light off bottom"
)

// ErrUnknownCommand is returned for device/action pairs with no encoding.
var ErrUnknownCommand = errors.New("unknown device command")

// Sender is the transport contract the protocol needs.
type Sender interface {
	Send(line string) error
	IsConnected() bool
}

// Protocol maps {device, action, level} to wire commands and sends them.
type Protocol struct {
	link Sender
	log  zerolog.Logger
}

// NewProtocol returns a Protocol writing to link.
func NewProtocol(link Sender, log zerolog.Logger) *Protocol {
	return &Protocol{link: link, log: log.With().Str("component", "device").Logger()}
}

// Encode returns the commands for an action without sending anything.
func Encode(device, action, level string) ([]string, error) {
	device = strings.ToLower(strings.TrimSpace(device))
	action = strings.ToLower(strings.TrimSpace(action))
	level = strings.ToLower(strings.TrimSpace(level))

	switch device {
	case "door":
		switch action {
		case "open", "unlock":
			return []string{CmdOpenDoor}, nil
		case "close", "lock":
			return []string{CmdCloseDoor}, nil
		}
	case "light":
		switch {
		case isOff(action), isOn(action) && level == "low":
			return []string{CmdLightOffTop, CmdLightOffBottom}, nil
		case isOn(action):
			return []string{CmdLightOnTop, CmdLightOnBottom}, nil
		}
	case "light_top", "light_bottom":
		zone := strings.TrimPrefix(device, "light_")
		switch {
		case isOff(action):
			return []string{"light off " + zone}, nil
		case isOn(action):
			return []string{"light on " + zone}, nil
		}
	}
	return nil, fmt.Errorf("%w: device=%q action=%q", ErrUnknownCommand, device, action)
}

func isOn(action string) bool  { return action == "turn_on" || action == "on" }
func isOff(action string) bool { return action == "turn_off" || action == "off" }

// Execute encodes the action and sends each command. Unknown actions are
// reported and nothing is sent. A failed send does not stop the rest.
func (p *Protocol) Execute(device, action, level string) ([]string, error) {
	cmds, err := Encode(device, action, level)
	if err != nil {
		p.log.Warn().Err(err).Msg("Device action not sent")
		return nil, err
	}
	var errs []error
	for _, cmd := range cmds {
		if err := p.send(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return cmds, errors.Join(errs...)
}

// Raw sends a command verbatim, for commands produced by the model.
func (p *Protocol) Raw(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	return p.send(line)
}

func (p *Protocol) send(line string) error {
	err := p.link.Send(line)
	metrics.SerialSendsTotal.WithLabelValues(metrics.SendResult(err)).Inc()
	if err != nil {
		p.log.Warn().Err(err).Str("cmd", line).Msg("Serial send failed")
	}
	return err
}

// Connected reports the link state.
func (p *Protocol) Connected() bool { return p.link.IsConnected() }
