package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

type fakeHealth struct {
	ok    bool
	comps map[string]bool
}

func (f fakeHealth) IsHealthy() bool             { return f.ok }
func (f fakeHealth) Components() map[string]bool { return f.comps }

func newRouter(t *testing.T, h Health) (http.Handler, *store.Reminders, *store.Calendar) {
	t.Helper()
	dir := t.TempDir()
	rem, err := store.NewReminders(filepath.Join(dir, "reminders.json"), zerolog.Nop())
	require.NoError(t, err)
	cal, err := store.NewCalendar(filepath.Join(dir, "calendar.json"), zerolog.Nop())
	require.NoError(t, err)
	return NewRouter(h, rem, cal, zerolog.Nop()), rem, cal
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealth(t *testing.T) {
	r, _, _ := newRouter(t, fakeHealth{ok: true, comps: map[string]bool{"serial": true}})
	rr := get(t, r, "/v0/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"UP","components":{"serial":true}}`, rr.Body.String())

	r, _, _ = newRouter(t, fakeHealth{comps: map[string]bool{"serial": false}})
	rr = get(t, r, "/v0/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "DEGRADED")
}

func TestReminders(t *testing.T) {
	r, rem, _ := newRouter(t, nil)
	rr := get(t, r, "/v0/reminders")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	_, err := rem.AddAt("call mom", time.Date(2030, 1, 2, 9, 30, 0, 0, time.Local))
	require.NoError(t, err)
	rr = get(t, r, "/v0/reminders")
	assert.JSONEq(t, `[{"message":"call mom","datetime":"2030-01-02T09:30:00"}]`, rr.Body.String())
}

func TestEvents(t *testing.T) {
	r, _, cal := newRouter(t, nil)
	_, err := cal.AddAt("Dentist", time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	rr := get(t, r, "/v0/events?scope=upcoming")
	require.Equal(t, http.StatusOK, rr.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0]["title"])

	rr = get(t, r, "/v0/events?scope=today")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = get(t, r, "/v0/events?scope=yesterday")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := newRouter(t, nil)
	rr := get(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
}
