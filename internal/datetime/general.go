package datetime

import (
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

const defaultMaxSpan = 5

// ParseFunc parses a whole string into a time.
type ParseFunc func(text string, now time.Time) (time.Time, bool)

// SpanParser tries the whole text and then every contiguous token span
// containing a digit, longest and leftmost first. Sentences such as
// "add a dentist appointment tomorrow at 15:00" rarely parse whole, while
// "tomorrow at 15:00" does. Spans that are only a bare number, optionally
// after "at" or "الساعة", are never handed to the parser: it reads "9" as a
// month.
type SpanParser struct {
	parse   ParseFunc
	maxSpan int
}

// NewSpanParser wraps parse. A non-positive maxSpan uses the default.
func NewSpanParser(parse ParseFunc, maxSpan int) *SpanParser {
	if maxSpan <= 0 {
		maxSpan = defaultMaxSpan
	}
	return &SpanParser{parse: parse, maxSpan: maxSpan}
}

// NewDateParser returns a SpanParser backed by go-dateparser with English and
// Arabic enabled and future-biased resolution of incomplete dates.
func NewDateParser() *SpanParser {
	return NewSpanParser(dateparserParse, defaultMaxSpan)
}

func dateparserParse(text string, now time.Time) (time.Time, bool) {
	cfg := &dps.Configuration{
		Languages:           []string{"en", "ar"},
		CurrentTime:         now,
		PreferredDateSource: dps.Future,
	}
	dt, err := dps.Parse(cfg, text)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}
	t := dt.Time
	// keep the wall clock, drop any zone the parser attached
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), true
}

// Parse implements GeneralParser.
func (p *SpanParser) Parse(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !hasDigit(text) {
		return time.Time{}, false
	}
	if !bareNumber(text) {
		if t, ok := p.parse(text, now); ok {
			return t, true
		}
	}
	tokens := strings.Fields(text)
	longest := p.maxSpan
	if longest > len(tokens) {
		longest = len(tokens)
	}
	for size := longest; size >= 1; size-- {
		for i := 0; i+size <= len(tokens); i++ {
			span := strings.Join(tokens[i:i+size], " ")
			if span == text || !hasDigit(span) || bareNumber(span) {
				continue
			}
			if t, ok := p.parse(span, now); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

var numberFillers = map[string]bool{
	"at": true, "on": true, "by": true, "around": true,
	"الساعة": true, "الساعه": true, "عند": true, "في": true,
}

// bareNumber reports whether text is nothing but plain integers and the
// prepositions that introduce them.
func bareNumber(text string) bool {
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if numberFillers[tok] {
			continue
		}
		if strings.TrimFunc(tok, isASCIIDigit) != "" {
			return false
		}
	}
	return true
}
