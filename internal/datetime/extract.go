// Package datetime resolves bilingual (English/Arabic) free text to local,
// minute-precision timestamps.
package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InputLayout is the textual form accepted from users and the model.
const InputLayout = "2006-01-02 15:04"

var (
	TodayWords       = []string{"today", "tonight", "اليوم", "الليلة"}
	TomorrowWords    = []string{"tomorrow", "غداً", "غدا", "بكرا", "بكرة", "باكر"}
	DayAfterTomorrow = []string{"day after tomorrow", "بعد بكرا", "بعد بكرة", "بعد غد", "بعد غدا"}

	PMWords = []string{"مساء", "المساء", "ليل", "ليلاً", "ليلا", "بعد الظهر", "عصر", "العصر", "ظهر", "الظهر", "tonight", "evening", "afternoon"}
	AMWords = []string{"صباح", "الصباح", "صباحاً", "صباحا", "الصبح", "فجراً", "فجرا", "الفجر", "morning"}
)

var (
	dateLiteral  = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	clockTime    = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?(?:\s*(am|pm))?\b`)
	durationUnit = regexp.MustCompile(`^\s*(?:seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|months?|دقيقة|دقيقه|دقائق|دقايق|ساعات|ساعتين|ايام|أيام|يوم)(?:[^\p{L}]|$)`)
	meridiem     = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm")
)

// GeneralParser is a free-text date parser tried before the patterns.
type GeneralParser interface {
	Parse(text string, now time.Time) (time.Time, bool)
}

// Extractor resolves a date and time of day from an utterance.
type Extractor struct {
	General GeneralParser
	Now     func() time.Time
}

// NewExtractor returns an Extractor using the wall clock. general may be nil.
func NewExtractor(general GeneralParser) *Extractor {
	return &Extractor{General: general, Now: time.Now}
}

func (e *Extractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Extract tries the general parser first and then the bilingual patterns. A
// general result that contradicts a day word or clock the patterns found is
// discarded in favour of the patterns.
func (e *Extractor) Extract(text string) (time.Time, bool) {
	now := e.now()
	text = ASCIIDigits(text)
	w := scan(text, now)
	if e.General != nil {
		if t, ok := e.General.Parse(text, now); ok {
			if t, ok := w.reconcile(t, now); ok {
				return t, true
			}
		}
	}
	return w.at(now)
}

// GeneralOnly runs only the general parser, without the pattern fallback.
// The patterns still veto a result that disagrees with them.
func (e *Extractor) GeneralOnly(text string) (time.Time, bool) {
	if e.General == nil {
		return time.Time{}, false
	}
	now := e.now()
	text = ASCIIDigits(text)
	t, ok := e.General.Parse(text, now)
	if !ok {
		return time.Time{}, false
	}
	return scan(text, now).reconcile(t, now)
}

// Patterns resolves text with the fixed bilingual patterns. A time of day is
// required; the day defaults to the day of now.
func Patterns(text string, now time.Time) (time.Time, bool) {
	return scan(text, now).at(now)
}

// when is what the fixed patterns recognize in one utterance.
type when struct {
	day          time.Time
	hasDay       bool
	hour, minute int
	hasClock     bool
}

func scan(text string, now time.Time) when {
	t := meridiem.Replace(strings.ToLower(ASCIIDigits(text)))
	var w when
	var rest string
	w.day, rest, w.hasDay = resolveDay(t, now)
	w.hour, w.minute, w.hasClock = clock(rest)
	return w
}

func (w when) at(now time.Time) (time.Time, bool) {
	if !w.hasClock {
		return time.Time{}, false
	}
	day := now
	if w.hasDay {
		day = w.day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), w.hour, w.minute, 0, 0, now.Location()), true
}

// reconcile keeps a general parser result unless it names a different clock
// or day than the patterns found. On disagreement the pattern result wins,
// or nothing if the patterns have no clock of their own.
func (w when) reconcile(t, now time.Time) (time.Time, bool) {
	t = Truncate(t)
	agrees := true
	if w.hasClock && (t.Hour() != w.hour || t.Minute() != w.minute) {
		agrees = false
	}
	if w.hasDay && !sameDay(t, w.day) {
		agrees = false
	}
	if agrees {
		return t, true
	}
	return w.at(now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// resolveDay returns the referenced day and the text with any date literal
// removed so its digits are not mistaken for a time.
func resolveDay(t string, now time.Time) (time.Time, string, bool) {
	if m := dateLiteral.FindStringSubmatchIndex(t); m != nil {
		y, _ := strconv.Atoi(t[m[2]:m[3]])
		mo, _ := strconv.Atoi(t[m[4]:m[5]])
		d, _ := strconv.Atoi(t[m[6]:m[7]])
		rest := t[:m[0]] + " " + t[m[1]:]
		if day, ok := validDate(y, mo, d, now.Location()); ok {
			return day, rest, true
		}
		return time.Time{}, rest, false
	}
	switch {
	case containsAny(t, DayAfterTomorrow):
		return now.AddDate(0, 0, 2), t, true
	case containsAny(t, TomorrowWords):
		return now.AddDate(0, 0, 1), t, true
	case containsAny(t, TodayWords):
		return now, t, true
	}
	return time.Time{}, t, false
}

func validDate(y, mo, d int, loc *time.Location) (time.Time, bool) {
	day := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if day.Year() != y || int(day.Month()) != mo || day.Day() != d {
		return time.Time{}, false
	}
	return day, true
}

// clock finds the first valid H[:MM][am|pm] in t. Numbers that count a
// duration ("in 10 minutes", "بعد 3 ساعات") are not times of day.
func clock(t string) (int, int, bool) {
	for _, m := range clockTime.FindAllStringSubmatchIndex(t, -1) {
		if m[7] < 0 && durationUnit.MatchString(t[m[1]:]) {
			continue
		}
		hour, _ := strconv.Atoi(t[m[2]:m[3]])
		minute := 0
		if m[4] >= 0 {
			minute, _ = strconv.Atoi(t[m[4]:m[5]])
		}
		ap := ""
		if m[6] >= 0 {
			ap = t[m[6]:m[7]]
		}
		if ap == "" {
			if containsAny(t, PMWords) {
				ap = "pm"
			}
			if containsAny(t, AMWords) {
				ap = "am"
			}
		}
		if hour <= 12 {
			if ap == "pm" && hour < 12 {
				hour += 12
			}
			if ap == "am" && hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			continue
		}
		return hour, minute, true
	}
	return 0, 0, false
}

// Truncate drops seconds and below.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// ParseInput parses the "YYYY-MM-DD HH:MM" form in the local zone.
func ParseInput(s string) (time.Time, error) {
	return time.ParseInLocation(InputLayout, strings.TrimSpace(ASCIIDigits(s)), time.Local)
}
