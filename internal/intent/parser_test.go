package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

var ref = time.Date(2025, 5, 19, 10, 0, 0, 0, time.Local)

func newTestParser() *Parser {
	return NewParser(&datetime.Extractor{Now: func() time.Time { return ref }})
}

func TestParse_DeviceControl(t *testing.T) {
	p := newTestParser()
	cases := []struct {
		in   string
		want DeviceControl
	}{
		{"turn off the top light", DeviceControl{DeviceLightTop, ActionTurnOff, ""}},
		{"Turn on the bottom light please", DeviceControl{DeviceLightBottom, ActionTurnOn, ""}},
		{"open the door", DeviceControl{DeviceDoor, ActionOpen, ""}},
		{"please close the door", DeviceControl{DeviceDoor, ActionClose, ""}},
		{"unlock the door", DeviceControl{DeviceDoor, ActionOpen, ""}},
		{"lights off", DeviceControl{DeviceLight, ActionTurnOff, ""}},
		{"turn on the light high", DeviceControl{DeviceLight, ActionTurnOn, LevelHigh}},
		{"شغّل النور", DeviceControl{DeviceLight, ActionTurnOn, ""}},
		{"نور عالي", DeviceControl{DeviceLight, ActionTurnOn, LevelHigh}},
		{"اطفئ الاضاءة العلوية", DeviceControl{DeviceLightTop, ActionTurnOff, ""}},
		{"شغّل الإضاءة السفلية", DeviceControl{DeviceLightBottom, ActionTurnOn, ""}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := p.Parse(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_ArabicTableWinsRegardlessOfRest(t *testing.T) {
	p := newTestParser()
	got, rule, ok := p.Explain("افتح الباب لو سمحت وبعدين شغل النور العلوي")
	require.True(t, ok)
	assert.Equal(t, "arabic_device", rule)
	assert.Equal(t, DeviceControl{DeviceDoor, ActionOpen, ""}, got)
}

func TestParse_AddFaceBeatsCalendar(t *testing.T) {
	p := newTestParser()
	for _, in := range []string{
		"add a new face",
		"register my face",
		"add face and schedule a meeting tomorrow at 3",
		"أضف وجه جديد",
		"سجّل وجه",
	} {
		got, ok := p.Parse(in)
		require.True(t, ok, in)
		assert.Equal(t, AddFace{}, got, in)
	}
}

func TestParse_CalendarQuery(t *testing.T) {
	p := newTestParser()
	got, ok := p.Parse("what's on my schedule today")
	require.True(t, ok)
	assert.Equal(t, CalendarQuery{Scope: ScopeToday}, got)

	got, ok = p.Parse("what are my upcoming events")
	require.True(t, ok)
	assert.Equal(t, CalendarQuery{Scope: ScopeUpcoming}, got)

	got, ok = p.Parse("مواعيدي القادمة")
	require.True(t, ok)
	assert.Equal(t, CalendarQuery{Scope: ScopeUpcoming}, got)

	got, ok = p.Parse("when is my next appointment")
	require.True(t, ok)
	assert.Equal(t, CalendarQuery{Scope: ScopeUpcoming}, got)
}

func TestParse_CalendarAdd(t *testing.T) {
	p := newTestParser()
	got, ok := p.Parse("add a dentist appointment tomorrow at 15:00")
	require.True(t, ok)
	assert.Equal(t, CalendarAdd{
		Title: "dentist appointment",
		At:    time.Date(2025, 5, 20, 15, 0, 0, 0, time.Local),
	}, got)

	got, ok = p.Parse("أضف موعد لجدولي اليوم الساعة 3 مساء")
	require.True(t, ok)
	assert.Equal(t, CalendarAdd{
		Title: "موعد",
		At:    time.Date(2025, 5, 19, 15, 0, 0, 0, time.Local),
	}, got)
}

func TestParse_CalendarAddMissing(t *testing.T) {
	p := newTestParser()
	got, rule, ok := p.Explain("add an appointment to my schedule")
	require.True(t, ok)
	assert.Equal(t, "calendar_add", rule)
	assert.Equal(t, CalendarAddMissing{Title: "appointment"}, got)
}

func TestParse_Booking(t *testing.T) {
	p := newTestParser()
	got, ok := p.Parse("Book a table at Pizza Hut")
	require.True(t, ok)
	assert.Equal(t, OpenBooking{Query: "book a table at pizza hut"}, got)
}

func TestParse_Reminder(t *testing.T) {
	p := newTestParser()
	got, ok := p.Parse("remind me at 9:30 to call mom")
	require.True(t, ok)
	assert.Equal(t, Reminder{
		Message: "remind me at 9:30 to call mom",
		At:      time.Date(2025, 5, 19, 9, 30, 0, 0, time.Local),
	}, got)

	_, ok = p.Parse("remind me to call mom")
	assert.False(t, ok, "a reminder without a time is left to the interpreter")
}

func TestParse_Unresolved(t *testing.T) {
	p := newTestParser()
	_, ok := p.Parse("tell me a joke")
	assert.False(t, ok)
	_, ok = p.Parse("   ")
	assert.False(t, ok)
	assert.Equal(t, AIQuery{Prompt: "tell me a joke"}, p.ParseOrDefault(" tell me a joke "))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "dentist appointment", Title("add a dentist appointment tomorrow at 15:00"))
	assert.Equal(t, "appointment", Title("add to my calendar at 3pm"))
	assert.Equal(t, "review with whole design team and", Title("schedule review with the whole design team and product tomorrow"))
	assert.Equal(t, "موعد", Title("أضف موعد لجدولي اليوم الساعة ٣ مساء"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "3 اضف", Normalize(" ٣ أضِف "))
	assert.Equal(t, "turn on", Normalize("TURN On"))
}

func TestHasEventCue(t *testing.T) {
	assert.True(t, HasEventCue("Lunch with Omar next Friday at 1pm"))
	assert.True(t, HasEventCue("a call with the bank on Monday"))
	assert.True(t, HasEventCue("عندي مقابلة يوم الأحد"))
	assert.False(t, HasEventCue("what is the capital of france"))
	assert.False(t, HasEventCue("classic movies"))
}
