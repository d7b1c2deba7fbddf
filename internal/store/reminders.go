// Package store keeps reminders and calendar events in JSON files.
//
// Each store guards its file with one mutex held across the whole
// load-mutate-save sequence, so the foreground dispatcher and the
// background workers never lose each other's writes.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

// ErrInvalidTime is returned for times not in "YYYY-MM-DD HH:MM" form or
// with out-of-range fields.
var ErrInvalidTime = errors.New("invalid time. Use YYYY-MM-DD HH:MM")

const defaultReminderMessage = "Reminder"

// Reminder is one scheduled notification. UID is set only on
// machine-generated reminders and is unique within the store.
type Reminder struct {
	UID     string    `json:"uid,omitempty"`
	Message string    `json:"message"`
	At      Timestamp `json:"datetime"`
}

// Reminders is the persistent reminder store.
type Reminders struct {
	mu   sync.Mutex
	file *jsonFile[Reminder]
}

// NewReminders opens (creating if needed) the store at path.
func NewReminders(path string, log zerolog.Logger) (*Reminders, error) {
	f, err := newJSONFile[Reminder](path, log.With().Str("store", "reminders").Logger())
	if err != nil {
		return nil, err
	}
	return &Reminders{file: f}, nil
}

// Add stores a user reminder at when ("YYYY-MM-DD HH:MM").
func (s *Reminders) Add(message, when string) (Reminder, error) {
	at, err := datetime.ParseInput(when)
	if err != nil {
		return Reminder{}, fmt.Errorf("%w: %q", ErrInvalidTime, when)
	}
	return s.AddAt(message, at)
}

// AddAt stores a user reminder. User reminders carry no uid and are never
// deduplicated.
func (s *Reminders) AddAt(message string, at time.Time) (Reminder, error) {
	r := Reminder{Message: orDefault(message), At: NewTimestamp(at)}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.file.load()
	if err != nil {
		return Reminder{}, err
	}
	if err := s.file.save(append(items, r)); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// AddRelative stores a reminder minutesBefore ahead of base.
func (s *Reminders) AddRelative(message string, base time.Time, minutesBefore int) (Reminder, error) {
	if minutesBefore < 0 {
		minutesBefore = 0
	}
	return s.AddAt(message, base.Add(-time.Duration(minutesBefore)*time.Minute))
}

// AddUnique stores the reminder unless one with uid already exists. It
// reports whether a record was added; an existing record is left as is.
func (s *Reminders) AddUnique(uid, message string, at time.Time) (bool, error) {
	if uid == "" {
		return false, errors.New("uid is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.file.load()
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.UID == uid {
			return false, nil
		}
	}
	r := Reminder{UID: uid, Message: orDefault(message), At: NewTimestamp(at)}
	if err := s.file.save(append(items, r)); err != nil {
		return false, err
	}
	return true, nil
}

// TakeDue removes and returns every reminder at or before now, in store
// order. The file is rewritten only when the record count changed.
func (s *Reminders) TakeDue(now time.Time) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, total, err := s.file.load()
	if err != nil {
		return nil, err
	}
	var due, remaining []Reminder
	for _, it := range items {
		if it.At.After(now) {
			remaining = append(remaining, it)
		} else {
			due = append(due, it)
		}
	}
	if len(remaining) != total {
		if err := s.file.save(remaining); err != nil {
			return nil, err
		}
	}
	return due, nil
}

// List returns all stored reminders in store order.
func (s *Reminders) List() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.file.load()
	return items, err
}

// Confirmation is the sentence spoken after a reminder is stored.
func Confirmation(r Reminder) string {
	return "Reminder set for " + Human(r.At.Time)
}

func orDefault(message string) string {
	if message == "" {
		return defaultReminderMessage
	}
	return message
}
