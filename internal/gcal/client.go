// Package gcal is the optional Google Calendar collaborator.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

const primaryCalendar = "primary"

// ErrNotConfigured is returned when the credential or token file is missing.
var ErrNotConfigured = errors.New("google calendar not configured")

// Event is the part of a remote event the assistant uses. Start holds the
// raw dateTime, or date for all-day events.
type Event struct {
	ID      string
	Summary string
	Start   string
}

// LocalStart converts Start to local wall time truncated to the minute.
func (e Event) LocalStart() (time.Time, bool) {
	if e.Start == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, e.Start); err == nil {
		return t.In(time.Local).Truncate(time.Minute), true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, e.Start, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Title returns the summary or a placeholder.
func (e Event) Title() string {
	if e.Summary == "" {
		return "(No title)"
	}
	return e.Summary
}

// Client talks to one Google calendar. A nil *Client is valid and reports
// itself unavailable.
type Client struct {
	svc        *calendar.Service
	calendarID string
	now        func() time.Time
	log        zerolog.Logger
}

// New builds a client from an OAuth client file and a previously stored
// token. There is no interactive consent flow.
func New(ctx context.Context, credentialsPath, tokenPath string, log zerolog.Logger) (*Client, error) {
	creds, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	cfg, err := google.ConfigFromJSON(creds, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}
	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	src := &savingSource{
		base: cfg.TokenSource(ctx, tok),
		path: tokenPath,
		last: tok.AccessToken,
		log:  log,
	}
	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.ReuseTokenSource(tok, src)))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return NewWithService(svc, log), nil
}

// NewWithService wraps an existing service.
func NewWithService(svc *calendar.Service, log zerolog.Logger) *Client {
	return &Client{
		svc:        svc,
		calendarID: primaryCalendar,
		now:        time.Now,
		log:        log.With().Str("component", "gcal").Logger(),
	}
}

// Available reports whether remote calls can be attempted.
func (c *Client) Available() bool { return c != nil && c.svc != nil }

// Upcoming lists up to limit single events starting from now.
func (c *Client) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 5
	}
	res, err := c.svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(c.now().Format(time.RFC3339)).
		MaxResults(int64(limit)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list upcoming: %w", err)
	}
	return convert(res.Items), nil
}

// Today lists the events of the current local day.
func (c *Client) Today(ctx context.Context) ([]Event, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}
	now := c.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	res, err := c.svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(start.AddDate(0, 0, 1).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list today: %w", err)
	}
	return convert(res.Items), nil
}

// TodaySummary renders Today in the same sentence form as the local store.
func (c *Client) TodaySummary(ctx context.Context) (string, error) {
	events, err := c.Today(ctx)
	if err != nil {
		return "", err
	}
	return store.TodaySummary(toStore(events)), nil
}

// UpcomingSummary renders Upcoming in the same sentence form as the local store.
func (c *Client) UpcomingSummary(ctx context.Context, limit int) (string, error) {
	events, err := c.Upcoming(ctx, limit)
	if err != nil {
		return "", err
	}
	return store.UpcomingSummary(toStore(events)), nil
}

// AddEvent inserts a one-hour event and returns the spoken confirmation.
func (c *Client) AddEvent(ctx context.Context, title string, at time.Time) (string, error) {
	if !c.Available() {
		return "", ErrNotConfigured
	}
	if title == "" {
		title = "Untitled"
	}
	ev := &calendar.Event{
		Summary: title,
		Start:   &calendar.EventDateTime{DateTime: at.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: at.Add(time.Hour).Format(time.RFC3339)},
	}
	if _, err := c.svc.Events.Insert(c.calendarID, ev).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	c.log.Info().Str("title", title).Time("at", at).Msg("event added")
	return fmt.Sprintf("Event '%s' added to Google Calendar at %s.", title, store.Human(at)), nil
}

func convert(items []*calendar.Event) []Event {
	out := make([]Event, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		e := Event{ID: it.Id, Summary: it.Summary}
		if e.ID == "" {
			e.ID = it.ICalUID
		}
		if it.Start != nil {
			e.Start = it.Start.DateTime
			if e.Start == "" {
				e.Start = it.Start.Date
			}
		}
		out = append(out, e)
	}
	return out
}

func toStore(events []Event) []store.Event {
	out := make([]store.Event, 0, len(events))
	for _, e := range events {
		at, ok := e.LocalStart()
		if !ok {
			continue
		}
		out = append(out, store.Event{Title: e.Title(), At: store.NewTimestamp(at)})
	}
	return out
}
