package gcal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	c := NewWithService(svc, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2025, 5, 19, 10, 0, 0, 0, time.Local) }
	return c
}

func TestNilClientUnavailable(t *testing.T) {
	var c *Client
	assert.False(t, c.Available())
	_, err := c.Upcoming(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.AddEvent(context.Background(), "x", time.Now())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUpcoming(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		query = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"items":[
			{"id":"e1","summary":"Standup","start":{"dateTime":"2025-05-19T11:00:00+00:00"}},
			{"iCalUID":"ical-2","start":{"date":"2025-05-20"}}
		]}`)
	})

	events, err := c.Upcoming(context.Background(), 15)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, Event{ID: "e1", Summary: "Standup", Start: "2025-05-19T11:00:00+00:00"}, events[0])
	assert.Equal(t, "ical-2", events[1].ID)
	assert.Equal(t, "(No title)", events[1].Title())
	assert.Contains(t, query, "maxResults=15")
	assert.Contains(t, query, "singleEvents=true")
	assert.Contains(t, query, "orderBy=startTime")
}

func TestTodaySummary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("timeMax"))
		_, _ = io.WriteString(w, `{"items":[{"id":"a","summary":"Lunch","start":{"dateTime":"2025-05-19T13:30:00"}}]}`)
	})
	s, err := c.TodaySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Today: Lunch at 01:30 PM", s)
}

func TestTodaySummary_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[]}`)
	})
	s, err := c.TodaySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "You have nothing scheduled for today.", s)
}

func TestAddEvent(t *testing.T) {
	var got calendar.Event
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id":"new"}`)
	})
	at := time.Date(2025, 5, 20, 15, 0, 0, 0, time.Local)

	msg, err := c.AddEvent(context.Background(), "dentist appointment", at)
	require.NoError(t, err)
	assert.Equal(t, "Event 'dentist appointment' added to Google Calendar at 2025-05-20 03:00 PM.", msg)
	assert.Equal(t, "dentist appointment", got.Summary)
	assert.Equal(t, at.Format(time.RFC3339), got.Start.DateTime)
	assert.Equal(t, at.Add(time.Hour).Format(time.RFC3339), got.End.DateTime)
}

func TestAddEvent_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := c.AddEvent(context.Background(), "x", time.Now())
	assert.Error(t, err)
}

func TestLocalStart(t *testing.T) {
	utc := Event{Start: "2025-05-19T11:00:00Z"}
	got, ok := utc.LocalStart()
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 5, 19, 11, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Local, got.Location())

	allDay, ok := Event{Start: "2025-05-20"}.LocalStart()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.Local), allDay)

	_, ok = Event{Start: "soon"}.LocalStart()
	assert.False(t, ok)
	_, ok = Event{}.LocalStart()
	assert.False(t, ok)
}

func TestLoadToken(t *testing.T) {
	dir := t.TempDir()

	goStyle := filepath.Join(dir, "go.json")
	require.NoError(t, os.WriteFile(goStyle, []byte(`{"access_token":"a","refresh_token":"r","token_type":"Bearer","expiry":"2025-05-19T10:00:00Z"}`), 0o600))
	tok, err := loadToken(goStyle)
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.False(t, tok.Expiry.IsZero())

	pyStyle := filepath.Join(dir, "py.json")
	require.NoError(t, os.WriteFile(pyStyle, []byte(`{"token":"p","refresh_token":"r2","client_id":"c"}`), 0o600))
	tok, err = loadToken(pyStyle)
	require.NoError(t, err)
	assert.Equal(t, "p", tok.AccessToken)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o600))
	_, err = loadToken(empty)
	assert.Error(t, err)
}

func TestNew_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := New(context.Background(), filepath.Join(dir, "credentials.json"), filepath.Join(dir, "token.json"), zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
