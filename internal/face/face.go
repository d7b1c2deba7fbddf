// Package face adapts external recognition, enrollment and emotion
// programs to the assistant.
package face

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Recognizer identifies the person in front of the camera; "" means unknown.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// Enroller captures and stores a new face under name.
type Enroller interface {
	Enroll(ctx context.Context, name string) (bool, error)
}

// EmotionDetector returns a classifier label such as "happy".
type EmotionDetector interface {
	Detect(ctx context.Context) (string, error)
}

var errNoCommand = errors.New("no command configured")

// Commands runs one external program per operation. Each command line is
// split on whitespace; enrollment receives the name as a final argument.
type Commands struct {
	RecognizeCmd string
	EnrollCmd    string
	EmotionCmd   string
	Timeout      time.Duration
	Log          zerolog.Logger
}

// Recognize runs RecognizeCmd and returns the first line it prints.
func (c *Commands) Recognize(ctx context.Context) (string, error) {
	out, err := c.run(ctx, c.RecognizeCmd)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(out) {
	case "", "unknown", "none":
		return "", nil
	}
	return out, nil
}

// Enroll runs EnrollCmd with name and reports whether it exited cleanly.
func (c *Commands) Enroll(ctx context.Context, name string) (bool, error) {
	if _, err := c.run(ctx, c.EnrollCmd, name); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Detect runs EmotionCmd; without one every face is neutral.
func (c *Commands) Detect(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.EmotionCmd) == "" {
		return "neutral", nil
	}
	out, err := c.run(ctx, c.EmotionCmd)
	if err != nil {
		return "neutral", err
	}
	if out == "" {
		return "neutral", nil
	}
	return strings.ToLower(out), nil
}

func (c *Commands) run(ctx context.Context, cmdline string, extra ...string) (string, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return "", errNoCommand
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(fields[1:], extra...)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		c.Log.Warn().Err(err).Str("cmd", fields[0]).Str("stderr", strings.TrimSpace(stderr.String())).Msg("face command failed")
		return "", fmt.Errorf("%s: %w", fields[0], err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	return strings.TrimSpace(line), nil
}

// Static recognizes everyone as Name. It stands in when no camera program
// is configured.
type Static struct {
	Name string
}

func (s Static) Recognize(context.Context) (string, error) { return s.Name, nil }
