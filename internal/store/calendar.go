package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

// Event is one local calendar entry.
type Event struct {
	Title string    `json:"title"`
	At    Timestamp `json:"datetime"`
}

// Calendar is the local calendar used when no remote calendar is configured.
type Calendar struct {
	mu   sync.Mutex
	file *jsonFile[Event]
}

// NewCalendar opens (creating if needed) the calendar at path.
func NewCalendar(path string, log zerolog.Logger) (*Calendar, error) {
	f, err := newJSONFile[Event](path, log.With().Str("store", "calendar").Logger())
	if err != nil {
		return nil, err
	}
	return &Calendar{file: f}, nil
}

// Add stores an event at when ("YYYY-MM-DD HH:MM").
func (c *Calendar) Add(title, when string) (Event, error) {
	at, err := datetime.ParseInput(when)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidTime, when)
	}
	return c.AddAt(title, at)
}

// AddAt stores an event.
func (c *Calendar) AddAt(title string, at time.Time) (Event, error) {
	e := Event{Title: title, At: NewTimestamp(at)}
	c.mu.Lock()
	defer c.mu.Unlock()
	items, _, err := c.file.load()
	if err != nil {
		return Event{}, err
	}
	if err := c.file.save(append(items, e)); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Events returns every stored event in store order.
func (c *Calendar) Events() ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, _, err := c.file.load()
	return items, err
}

// Upcoming returns up to limit events strictly after now, soonest first.
func (c *Calendar) Upcoming(now time.Time, limit int) ([]Event, error) {
	items, err := c.Events()
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, e := range items {
		if e.At.After(now) {
			out = append(out, e)
		}
	}
	sortEvents(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Today returns the events on now's calendar day, soonest first.
func (c *Calendar) Today(now time.Time) ([]Event, error) {
	items, err := c.Events()
	if err != nil {
		return nil, err
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	var out []Event
	for _, e := range items {
		if !e.At.Before(start) && e.At.Before(end) {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].At.Before(events[j].At.Time) })
}

// AddedMessage is the confirmation for a locally stored event.
func AddedMessage(e Event) string {
	return fmt.Sprintf("Event '%s' added for %s.", e.Title, Human(e.At.Time))
}

// UpcomingSummary renders events as "title at date time; ...".
func UpcomingSummary(events []Event) string {
	if len(events) == 0 {
		return "You have no upcoming events."
	}
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, fmt.Sprintf("%s at %s", e.Title, Human(e.At.Time)))
	}
	return strings.Join(parts, "; ")
}

// TodaySummary renders today's events as "Today: title at time; ...".
func TodaySummary(events []Event) string {
	if len(events) == 0 {
		return "You have nothing scheduled for today."
	}
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, fmt.Sprintf("%s at %s", e.Title, Clock(e.At.Time)))
	}
	return "Today: " + strings.Join(parts, "; ")
}
