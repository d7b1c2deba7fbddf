// Package chat answers open-ended questions through an ordered chain of
// sources, ending in a fixed apology.
package chat

import (
	"context"
	"strings"
	"time"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

// Apology is the last-resort answer.
const Apology = "Sorry, I couldn't find an answer right now."

var timeQuestions = []string{"what time", "time is it", "current time", "كم الساعة", "الساعة كم", "كم الساعه", "الساعه كم"}

// Config controls the knowledge lookups.
type Config struct {
	Lookups       bool
	WikipediaBase string // formatted with the language code
	DuckDuckGoURL string
	Timeout       time.Duration
	CacheSize     int
}

// Responder implements the chat fallback chain.
type Responder struct {
	kb    *knowledge
	cache *lru.Cache[string, string]
	now   func() time.Time
	log   zerolog.Logger
}

// New constructs a Responder.
func New(cfg Config, log zerolog.Logger) *Responder {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 128
	}
	cache, _ := lru.New[string, string](cfg.CacheSize)
	r := &Responder{cache: cache, now: time.Now, log: log.With().Str("component", "chat").Logger()}
	if cfg.Lookups {
		r.kb = newKnowledge(cfg)
	}
	return r
}

// Respond answers prompt without a model call; the caller has already spent
// the turn's one generation. The result is never empty.
func (r *Responder) Respond(ctx context.Context, prompt string) string {
	q := strings.TrimSpace(prompt)
	if isTimeQuestion(q) {
		return "The time is " + store.Clock(r.now()) + "."
	}
	if q == "" {
		return Apology
	}
	if r.kb != nil {
		if ans := r.lookup(ctx, q); ans != "" {
			return ans
		}
	}
	r.log.Debug().Str("prompt", q).Msg("no answer found")
	return Apology
}

func (r *Responder) lookup(ctx context.Context, q string) string {
	langs := []string{"en", "ar"}
	if hasArabic(q) {
		langs = []string{"ar", "en"}
	}
	key := langs[0] + ":" + strings.ToLower(q)
	if v, ok := r.cache.Get(key); ok {
		return v
	}
	ans := ""
	for _, lang := range langs {
		if ans = r.kb.wikipedia(ctx, lang, q); ans != "" {
			break
		}
	}
	if ans == "" {
		ans = r.kb.duckduckgo(ctx, q)
	}
	if ans != "" {
		r.cache.Add(key, ans)
	}
	return ans
}

func isTimeQuestion(q string) bool {
	low := strings.ToLower(q)
	for _, w := range timeQuestions {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

func hasArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
