package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

// Normalize maps Eastern Arabic digits to ASCII, lowercases Latin text and
// removes combining marks. Removing marks also folds hamza and madda
// carriers, so "أطفئ" and "اطفي" compare equal.
func Normalize(s string) string {
	s = datetime.ASCIIDigits(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// input is one utterance prepared for matching.
type input struct {
	raw    string // trimmed, ASCII digits, original case
	norm   string
	tokens []string
	padded string // " tok tok tok "
}

func newInput(text string) *input {
	raw := datetime.ASCIIDigits(strings.TrimSpace(text))
	n := Normalize(raw)
	toks := tokenize(n)
	return &input{
		raw:    raw,
		norm:   n,
		tokens: toks,
		padded: " " + strings.Join(toks, " ") + " ",
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ':' && r != '-'
	})
}

// has reports whether any word occurs. Latin words and phrases match on
// token boundaries, short Arabic words must be whole tokens, and longer
// Arabic words match anywhere so attached prefixes such as ال or و still hit.
func (in *input) has(words []string) bool {
	for _, w := range words {
		switch {
		case isASCII(w), utf8.RuneCountInString(w) <= 2:
			if strings.Contains(in.padded, " "+w+" ") {
				return true
			}
		default:
			if strings.Contains(in.norm, w) {
				return true
			}
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func normalizeAll(words ...string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		n := Normalize(w)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
