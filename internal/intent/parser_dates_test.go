package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

// early morning, so every bare hour below is still ahead of now
var dawn = time.Date(2025, 5, 19, 7, 0, 0, 0, time.Local)

func newDateParser() *Parser {
	ex := datetime.NewExtractor(datetime.NewDateParser())
	ex.Now = func() time.Time { return dawn }
	return NewParser(ex)
}

func TestParse_WithDateParser(t *testing.T) {
	p := newDateParser()
	cases := []struct {
		name string
		in   string
		kind Kind
		want time.Time
	}{
		{"bare hour reminder", "remind me at 9 to call mom", KindReminder, time.Date(2025, 5, 19, 9, 0, 0, 0, time.Local)},
		{"bare hour meeting", "schedule a meeting at 10", KindCalendarAdd, time.Date(2025, 5, 19, 10, 0, 0, 0, time.Local)},
		{"arabic tomorrow evening", "اضف موعد بكرا الساعة 3 مساء", KindCalendarAdd, time.Date(2025, 5, 20, 15, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := p.Parse(tc.in)
			require.True(t, ok)
			require.Equal(t, tc.kind, got.Kind())
			switch it := got.(type) {
			case CalendarAdd:
				assert.Equal(t, tc.want, it.At)
			case Reminder:
				assert.Equal(t, tc.want, it.At)
			}
		})
	}
}

func TestParse_DentistWithDateParser(t *testing.T) {
	got, ok := newDateParser().Parse("add a dentist appointment tomorrow at 15:00")
	require.True(t, ok)
	assert.Equal(t, CalendarAdd{
		Title: "dentist appointment",
		At:    time.Date(2025, 5, 20, 15, 0, 0, 0, time.Local),
	}, got)
}

func TestDates_UnresolvedEventWithDateParser(t *testing.T) {
	p := newDateParser()
	text := "lunch with sam tomorrow at 2 pm"

	_, ok := p.Parse(text)
	require.False(t, ok)
	require.True(t, HasEventCue(text))

	at, ok := p.Dates().GeneralOnly(text)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 20, 14, 0, 0, 0, time.Local), at)

	at, ok = p.Dates().Extract("dinner at 8")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 19, 8, 0, 0, 0, time.Local), at)
}
