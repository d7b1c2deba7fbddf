package dispatch

import (
	"context"
	"time"

	"github.com/saraaltoom/Travis-Home-AI/internal/interpreter"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

// Speaker says one sentence to the user.
type Speaker interface {
	Speak(text string)
}

// Listener returns the next utterance.
type Listener interface {
	Listen() (string, error)
}

// Devices sends device commands to the microcontroller.
type Devices interface {
	Execute(device, action, level string) ([]string, error)
	Raw(line string) error
}

// Interpreter is the generative fallback stage.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (interpreter.Result, interpreter.Outcome)
}

// RemoteCalendar is an optional external calendar.
type RemoteCalendar interface {
	Available() bool
	TodaySummary(ctx context.Context) (string, error)
	UpcomingSummary(ctx context.Context, limit int) (string, error)
	AddEvent(ctx context.Context, title string, at time.Time) (string, error)
}

// LocalCalendar is the on-disk calendar.
type LocalCalendar interface {
	AddAt(title string, at time.Time) (store.Event, error)
	Upcoming(now time.Time, limit int) ([]store.Event, error)
	Today(now time.Time) ([]store.Event, error)
}

// Reminders is the reminder store as seen by user-facing handlers.
type Reminders interface {
	Add(message, when string) (store.Reminder, error)
	AddAt(message string, at time.Time) (store.Reminder, error)
	AddRelative(message string, base time.Time, minutesBefore int) (store.Reminder, error)
}

// Browser opens links.
type Browser interface {
	OpenURL(u string) bool
	OpenBookingSearch(query string) bool
}

// Chat answers open-ended prompts without a model call; the answer is
// never empty.
type Chat interface {
	Respond(ctx context.Context, prompt string) string
}

// Recognizer identifies the person at the camera; "" means unknown.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// Enroller stores a new face.
type Enroller interface {
	Enroll(ctx context.Context, name string) (bool, error)
}
