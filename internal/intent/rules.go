package intent

import (
	"strings"
)

// rule is one entry of the ordered heuristic table. match returns nil when
// the rule does not apply.
type rule struct {
	name  string
	match func(p *Parser, in *input) Intent
}

// rules are evaluated in order; the first non-nil result wins.
var rules = []rule{
	{"add_face", matchAddFace},
	{"arabic_device", matchArabicDevice},
	{"english_device", matchEnglishDevice},
	{"zoned_light", matchZonedLight},
	{"calendar_query", matchCalendarQuery},
	{"calendar_add", matchCalendarAdd},
	{"booking", matchBooking},
	{"reminder", matchReminder},
}

var (
	faceWords    = normalizeAll("face", "faces", "وجه", "بصمة")
	faceAddWords = normalizeAll("add", "register", "enroll", "new",
		"اضف", "أضف", "سجل", "سجّل", "اضافة", "إضافة", "ضيف")
	facePhrases = normalizeAll("اضف وجه جديد", "أضف وجه جديد", "اضافة وجه جديد",
		"سجل وجه", "سجّل وجه", "اضف بصمة وجه", "أضف بصمة وجه")
)

func matchAddFace(_ *Parser, in *input) Intent {
	if in.has(faceWords) && in.has(faceAddWords) {
		return AddFace{}
	}
	for _, p := range facePhrases {
		if strings.Contains(in.norm, p) {
			return AddFace{}
		}
	}
	return nil
}

type arabicPhrase struct {
	phrase string
	cmd    DeviceControl
}

var arabicDevicePhrases = func() []arabicPhrase {
	table := []arabicPhrase{
		{"افتح الباب", DeviceControl{DeviceDoor, ActionOpen, ""}},
		{"افتح باب", DeviceControl{DeviceDoor, ActionOpen, ""}},
		{"قفل الباب", DeviceControl{DeviceDoor, ActionClose, ""}},
		{"اغلق الباب", DeviceControl{DeviceDoor, ActionClose, ""}},
		{"أغلق الباب", DeviceControl{DeviceDoor, ActionClose, ""}},
		{"اغلق باب", DeviceControl{DeviceDoor, ActionClose, ""}},
		{"اقفل الباب", DeviceControl{DeviceDoor, ActionClose, ""}},
		{"شغل النور", DeviceControl{DeviceLight, ActionTurnOn, ""}},
		{"ولع النور", DeviceControl{DeviceLight, ActionTurnOn, ""}},
		{"طفي النور", DeviceControl{DeviceLight, ActionTurnOff, ""}},
		{"اطفئ النور", DeviceControl{DeviceLight, ActionTurnOff, ""}},
		{"أطفئ النور", DeviceControl{DeviceLight, ActionTurnOff, ""}},
		{"نور عالي", DeviceControl{DeviceLight, ActionTurnOn, LevelHigh}},
		{"نور متوسط", DeviceControl{DeviceLight, ActionTurnOn, LevelMedium}},
		{"نور منخفض", DeviceControl{DeviceLight, ActionTurnOn, LevelLow}},
	}
	for i := range table {
		table[i].phrase = Normalize(table[i].phrase)
	}
	return table
}()

func matchArabicDevice(_ *Parser, in *input) Intent {
	for _, e := range arabicDevicePhrases {
		if strings.Contains(in.norm, e.phrase) {
			return e.cmd
		}
	}
	return nil
}

var (
	englishDevicePhrases = []string{
		"open door", "open the door", "unlock door", "unlock the door",
		"close door", "close the door", "lock door", "lock the door",
		"turn on light", "turn on the light", "turn on lights", "turn on the lights",
		"switch on light", "switch on the light", "switch on lights", "switch on the lights",
		"lights on", "light on",
		"turn off light", "turn off the light", "turn off lights", "turn off the lights",
		"switch off light", "switch off the light", "switch off lights", "switch off the lights",
		"lights off", "light off",
		"light high", "light medium", "light low",
	}
	zoneWordsEN  = []string{"top", "upper", "bottom", "lower"}
	zoneWordsAR  = normalizeAll("العلوي", "علوي", "علوية", "علويه", "فوق", "السفلي", "سفلي", "سفلية", "سفليه", "تحت")
	topWords     = normalizeAll("top", "upper", "العلوي", "علوي", "علوية", "علويه", "فوق")
	lightWordsEN = []string{"light", "lights", "lamp", "lamps"}
	onWordsEN    = []string{"turn on", "switch on", "lights on", "light on"}
	offWordsEN   = []string{"turn off", "switch off", "off"}
	offWords     = normalizeAll("off", "turn off", "switch off",
		"اطفي", "أطفئ", "اطفئ", "طف", "طفي", "طفّي", "إيقاف", "سكر")
	highWords = normalizeAll("high", "عالي", "مرتفع", "فل")
	lowWords  = normalizeAll("low", "منخفض", "خفيف")
)

// matchEnglishDevice leaves zoned phrasing ("turn off the top light") to
// matchZonedLight.
func matchEnglishDevice(_ *Parser, in *input) Intent {
	if !in.has(englishDevicePhrases) || in.has(zoneWordsEN) {
		return nil
	}
	if in.has([]string{"door"}) {
		dc := DeviceControl{Device: DeviceDoor}
		switch {
		case in.has([]string{"open", "unlock"}):
			dc.Action = ActionOpen
		case in.has([]string{"close", "lock"}):
			dc.Action = ActionClose
		}
		return dc
	}
	dc := DeviceControl{Device: DeviceLight}
	if in.has(onWordsEN) {
		dc.Action = ActionTurnOn
	}
	if in.has(offWordsEN) {
		dc.Action = ActionTurnOff
	}
	switch {
	case in.has([]string{"high"}):
		dc.Level = LevelHigh
	case in.has([]string{"medium"}):
		dc.Level = LevelMedium
	case in.has([]string{"low"}):
		dc.Level = LevelLow
	}
	if dc.Action == "" && dc.Level != "" {
		dc.Action = ActionTurnOn
	}
	return dc
}

func matchZonedLight(_ *Parser, in *input) Intent {
	english := in.has(zoneWordsEN) && in.has(lightWordsEN)
	if !english && !in.has(zoneWordsAR) {
		return nil
	}
	dc := DeviceControl{Device: DeviceLightBottom, Action: ActionTurnOn}
	if in.has(topWords) {
		dc.Device = DeviceLightTop
	}
	if in.has(offWords) {
		dc.Action = ActionTurnOff
	}
	switch {
	case in.has(highWords):
		dc.Level = LevelHigh
	case in.has(lowWords):
		dc.Level = LevelLow
	}
	return dc
}

var (
	calendarQueryWords = normalizeAll("schedule", "calendar", "event", "events", "agenda",
		"appointments", "next appointment", "upcoming appointment",
		"جدولي", "مواعيدي", "مواعيد", "اجندتي")
	upcomingWords = normalizeAll("upcoming", "next", "coming", "القادمة", "القادم", "الجاي", "الجاية")
	addVerbs      = normalizeAll("add", "put", "create", "new", "set up",
		"schedule a", "schedule an", "schedule the", "schedule my",
		"أضف", "اضف", "إضافة", "اضافة", "ضيف", "حط", "سجل")
)

func matchCalendarQuery(_ *Parser, in *input) Intent {
	if !in.has(calendarQueryWords) || in.has(addVerbs) {
		return nil
	}
	if in.has(upcomingWords) {
		return CalendarQuery{Scope: ScopeUpcoming}
	}
	return CalendarQuery{Scope: ScopeToday}
}

var calendarAddWords = normalizeAll("add", "schedule", "meeting", "appointment",
	"موعد", "أضف", "اضف", "إضافة", "ضيف", "جدول", "حط", "سجل")

func matchCalendarAdd(p *Parser, in *input) Intent {
	if !in.has(calendarAddWords) {
		return nil
	}
	title := Title(in.raw)
	if at, ok := p.dates.Extract(in.norm); ok {
		return CalendarAdd{Title: title, At: at}
	}
	return CalendarAddMissing{Title: title}
}

var bookingWords = normalizeAll("book", "booking", "reserve", "reservation",
	"احجز", "احجزي", "حجز", "طيران", "طياره", "رحلة")

func matchBooking(_ *Parser, in *input) Intent {
	if !in.has(bookingWords) {
		return nil
	}
	return OpenBooking{Query: in.norm}
}

var remindWords = normalizeAll("remind", "reminder", "ذكر", "ذكرني", "ذكّرني")

func matchReminder(p *Parser, in *input) Intent {
	if !in.has(remindWords) {
		return nil
	}
	at, ok := p.dates.Extract(in.norm)
	if !ok {
		return nil
	}
	return Reminder{Message: in.raw, At: at}
}
