package intent

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

const (
	maxTitleTokens = 6
	defaultTitle   = "appointment"
)

var titleStopWords = func() map[string]bool {
	words := []string{
		"add", "put", "create", "new", "schedule", "set", "up", "please", "can", "you",
		"a", "an", "the", "my", "to", "on", "at", "for", "in", "calendar",
		"today", "tonight", "tomorrow", "am", "pm", "o'clock", "oclock",
		"morning", "afternoon", "evening",
		"أضف", "اضف", "إضافة", "اضافة", "ضيف", "حط", "سجل",
		"لجدولي", "جدولي", "جدول", "في", "على", "الساعة", "الساعه", "يوم",
	}
	words = append(words, datetime.TodayWords...)
	words = append(words, datetime.TomorrowWords...)
	words = append(words, datetime.PMWords...)
	words = append(words, datetime.AMWords...)
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[Normalize(w)] = true
	}
	return m
}()

var timeToken = regexp.MustCompile(`^(\d+([:\-]\d+)*)(am|pm)?$`)

// Title strips command and time words from text and keeps at most six
// tokens, defaulting to "appointment".
func Title(text string) string {
	raw := datetime.ASCIIDigits(strings.TrimSpace(text))
	var kept []string
	for _, tok := range strings.Fields(raw) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok == "" {
			continue
		}
		n := Normalize(tok)
		if titleStopWords[n] || timeToken.MatchString(n) {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == maxTitleTokens {
			break
		}
	}
	if len(kept) == 0 {
		return defaultTitle
	}
	return strings.Join(kept, " ")
}
