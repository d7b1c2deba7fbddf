package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraaltoom/Travis-Home-AI/internal/config"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

var ref = time.Date(2025, 5, 19, 10, 0, 0, 0, time.Local)

func newStore(t *testing.T) *store.Reminders {
	t.Helper()
	s, err := store.NewReminders(filepath.Join(t.TempDir(), "reminders.json"), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestNew_ClampsInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second, time.Hour} {
		s := New(newStore(t), func(string) {}, Config{Interval: d}, zerolog.Nop())
		assert.Equal(t, config.MaxReminderTick, s.cfg.Interval)
	}
	s := New(newStore(t), func(string) {}, Config{Interval: 5 * time.Second}, zerolog.Nop())
	assert.Equal(t, 5*time.Second, s.cfg.Interval)
}

func TestTick_DeliversDueInStoreOrder(t *testing.T) {
	st := newStore(t)
	_, err := st.AddAt("first", ref.Add(-time.Minute))
	require.NoError(t, err)
	_, err = st.AddAt("future", ref.Add(time.Minute))
	require.NoError(t, err)
	_, err = st.AddAt("second", ref)
	require.NoError(t, err)

	var got []string
	s := New(st, func(m string) { got = append(got, m) }, Config{}, zerolog.Nop())
	s.now = func() time.Time { return ref }

	assert.Equal(t, 2, s.Tick())
	assert.Equal(t, []string{"first", "second"}, got)

	left, err := st.List()
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "future", left[0].Message)

	assert.Equal(t, 0, s.Tick())
}

func TestTick_PanickingCallbackDoesNotStopOthers(t *testing.T) {
	st := newStore(t)
	for _, m := range []string{"boom", "ok"} {
		_, err := st.AddAt(m, ref.Add(-time.Hour))
		require.NoError(t, err)
	}
	var got []string
	s := New(st, func(m string) {
		if m == "boom" {
			panic("speaker unplugged")
		}
		got = append(got, m)
	}, Config{}, zerolog.Nop())
	s.now = func() time.Time { return ref }

	assert.Equal(t, 1, s.Tick())
	assert.Equal(t, []string{"ok"}, got)
}

type staticSource struct {
	due []store.Reminder
	err error
}

func (s staticSource) TakeDue(time.Time) ([]store.Reminder, error) { return s.due, s.err }

func TestTick_EmptyMessageUsesFallback(t *testing.T) {
	var got []string
	s := New(staticSource{due: []store.Reminder{{Message: ""}}}, func(m string) { got = append(got, m) }, Config{}, zerolog.Nop())
	s.Tick()
	assert.Equal(t, []string{FallbackMessage}, got)
}

func TestTick_StoreError(t *testing.T) {
	called := false
	s := New(staticSource{err: errors.New("disk")}, func(string) { called = true }, Config{}, zerolog.Nop())
	assert.Equal(t, 0, s.Tick())
	assert.False(t, called)
}

func TestRun_TicksImmediatelyAndStops(t *testing.T) {
	delivered := make(chan string, 1)
	s := New(staticSource{due: []store.Reminder{{Message: "now"}}}, func(m string) {
		select {
		case delivered <- m:
		default:
		}
	}, Config{Interval: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case m := <-delivered:
		assert.Equal(t, "now", m)
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate tick")
	}
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
