// Package assistant wires the components into a running home assistant:
// the door greeting, the background workers and the command loop.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/device"
	"github.com/saraaltoom/Travis-Home-AI/internal/dispatch"
	"github.com/saraaltoom/Travis-Home-AI/internal/face"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

// ErrAccessDenied is returned when the person at the camera is not recognized.
var ErrAccessDenied = errors.New("access denied")

const (
	msgAccessDenied = "Access denied. I don't recognize you."
	msgWelcome      = "Welcome home, %s."
	msgReady        = "I'm ready. How can I help?"
	msgSaySomething = "Please say something."
	msgGoodbye      = "Goodbye."
)

var quitWords = map[string]bool{"quit": true, "exit": true, "خروج": true}

// Handler dispatches one utterance.
type Handler interface {
	Dispatch(ctx context.Context, text, owner string)
}

// Session is one unlocked interaction: the door greeting followed by the
// command loop. Remote may be nil.
type Session struct {
	Owner      string
	Speaker    dispatch.Speaker
	Listener   dispatch.Listener
	Devices    dispatch.Devices
	Recognizer face.Recognizer
	Emotion    face.EmotionDetector
	Remote     dispatch.RemoteCalendar
	Local      dispatch.LocalCalendar
	Handler    Handler
	Log        zerolog.Logger

	now func() time.Time
}

func (s *Session) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Greet recognizes the person at the camera, mirrors their mood on the face
// display and opens the door. The owner also hears today's agenda.
// It returns the recognized name, or ErrAccessDenied.
func (s *Session) Greet(ctx context.Context) (string, error) {
	user, err := s.Recognizer.Recognize(ctx)
	if err != nil {
		s.Log.Warn().Err(err).Msg("face recognition failed")
		user = ""
	}

	label := "neutral"
	if s.Emotion != nil {
		if l, err := s.Emotion.Detect(ctx); err != nil {
			s.Log.Debug().Err(err).Msg("emotion detection failed")
		} else {
			label = l
		}
	}
	if err := s.Devices.Raw(device.EmotionCommand(label)); err != nil {
		s.Log.Debug().Err(err).Str("emotion", label).Msg("emotion command not delivered")
	}

	if user == "" {
		s.Speaker.Speak(msgAccessDenied)
		return "", ErrAccessDenied
	}

	if err := s.Devices.Raw("open door"); err != nil {
		s.Log.Warn().Err(err).Msg("door command not delivered")
	}
	s.Log.Info().Str("user", user).Str("emotion", label).Msg("user recognized")
	s.Speaker.Speak(fmt.Sprintf(msgWelcome, user))

	if user == s.Owner {
		if summary := s.todaySummary(ctx); summary != "" {
			s.Speaker.Speak(summary)
		}
	}
	return user, nil
}

func (s *Session) todaySummary(ctx context.Context) string {
	if s.Remote != nil && s.Remote.Available() {
		summary, err := s.Remote.TodaySummary(ctx)
		if err == nil {
			return summary
		}
		s.Log.Warn().Err(err).Msg("remote agenda unavailable, using local calendar")
	}
	if s.Local == nil {
		return ""
	}
	events, err := s.Local.Today(s.clock())
	if err != nil {
		s.Log.Error().Err(err).Msg("read local calendar")
		return ""
	}
	return store.TodaySummary(events)
}

// Loop listens and dispatches until a quit word, end of input or ctx is done.
func (s *Session) Loop(ctx context.Context) error {
	s.Speaker.Speak(msgReady)
	for {
		if ctx.Err() != nil {
			return nil
		}
		text, err := s.Listener.Listen()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("listen: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			s.Speaker.Speak(msgSaySomething)
			continue
		}
		if quitWords[strings.ToLower(text)] {
			s.Speaker.Speak(msgGoodbye)
			return nil
		}
		s.Handler.Dispatch(ctx, text, s.Owner)
	}
}
