package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReminders(t *testing.T) (*Reminders, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "reminders.json")
	s, err := NewReminders(path, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

func TestReminders_AddCreatesFileAndConfirms(t *testing.T) {
	s, path := newTestReminders(t)

	r, err := s.Add("call mom", "2025-11-10 09:30")
	require.NoError(t, err)
	assert.Equal(t, "Reminder set for 2025-11-10 09:30 AM", Confirmation(r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"datetime": "2025-11-10T09:30:00"`)
	assert.NotContains(t, string(data), `"uid"`)
}

func TestReminders_AddRejectsInvalidTime(t *testing.T) {
	s, path := newTestReminders(t)

	_, err := s.Add("x", "2099-13-40 99:99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTime))

	items, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, items)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestReminders_AddUniqueIsInsertOnly(t *testing.T) {
	s, _ := newTestReminders(t)
	at := time.Date(2030, 1, 2, 8, 0, 0, 0, time.Local)

	added, err := s.AddUnique("gcal:abc:start", "first", at)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddUnique("gcal:abc:start", "second", at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, added)

	items, err := s.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].Message)
	assert.Equal(t, at, items[0].At.Time)
}

func TestReminders_UserRemindersAreNotDeduplicated(t *testing.T) {
	s, _ := newTestReminders(t)
	at := time.Date(2030, 1, 2, 8, 0, 0, 0, time.Local)
	_, err := s.AddAt("same", at)
	require.NoError(t, err)
	_, err = s.AddAt("same", at)
	require.NoError(t, err)

	items, err := s.List()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestReminders_AddRelative(t *testing.T) {
	s, _ := newTestReminders(t)
	base := time.Date(2025, 5, 20, 15, 0, 0, 0, time.Local)

	r, err := s.AddRelative("Reminder: dentist", base, 30)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 20, 14, 30, 0, 0, time.Local), r.At.Time)
}

func TestReminders_TakeDuePartitionsInStoreOrder(t *testing.T) {
	s, _ := newTestReminders(t)
	now := time.Date(2025, 5, 19, 12, 0, 0, 0, time.Local)

	_, _ = s.AddAt("past-1", now.Add(-time.Hour))
	_, _ = s.AddAt("future", now.Add(time.Minute))
	_, _ = s.AddAt("exact", now)
	_, _ = s.AddAt("past-2", now.Add(-2*time.Hour))

	due, err := s.TakeDue(now)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, []string{"past-1", "exact", "past-2"}, []string{due[0].Message, due[1].Message, due[2].Message})

	rest, err := s.List()
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "future", rest[0].Message)
}

func TestReminders_TakeDueLeavesFileUntouchedWhenNothingChanges(t *testing.T) {
	s, path := newTestReminders(t)
	now := time.Date(2025, 5, 19, 12, 0, 0, 0, time.Local)
	_, err := s.AddAt("future", now.Add(time.Hour))
	require.NoError(t, err)

	before, err := os.Stat(path)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	due, err := s.TakeDue(now)
	require.NoError(t, err)
	assert.Empty(t, due)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestReminders_CorruptFileReadsAsEmpty(t *testing.T) {
	s, path := newTestReminders(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	items, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, items)

	due, err := s.TakeDue(time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestReminders_InvalidRecordsAreDroppedOnNextWrite(t *testing.T) {
	s, path := newTestReminders(t)
	body := `[
  {"message": "bad", "datetime": "yesterday-ish"},
  {"message": "legacy", "datetime": "2020-01-01T08:00:00.123456"},
  {"uid": "gcal:x:start", "message": "later", "datetime": "2099-01-01T08:00:00"}
]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	due, err := s.TakeDue(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "legacy", due[0].Message)

	items, err := s.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "gcal:x:start", items[0].UID)
}

func TestReminders_RoundTrip(t *testing.T) {
	s, path := newTestReminders(t)
	want := []time.Time{
		time.Date(2025, 5, 20, 14, 30, 0, 0, time.Local),
		time.Date(2026, 12, 31, 23, 59, 0, 0, time.Local),
	}
	for i, at := range want {
		_, err := s.AddUnique("k:"+string(rune('a'+i)), "m", at)
		require.NoError(t, err)
	}

	reopened, err := NewReminders(path, zerolog.Nop())
	require.NoError(t, err)
	items, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, items, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(items[i].At.Time))
	}
}

func TestReminders_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	s, _ := newTestReminders(t)
	at := time.Date(2099, 1, 1, 0, 0, 0, 0, time.Local)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AddUnique("k:"+time.Duration(i).String(), "m", at)
		}(i)
	}
	wg.Wait()

	items, err := s.List()
	require.NoError(t, err)
	assert.Len(t, items, 20)
}
