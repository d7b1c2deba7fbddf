package intent

import (
	"strings"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
)

// Parser is the deterministic first stage of interpretation.
type Parser struct {
	dates *datetime.Extractor
}

// NewParser returns a Parser resolving times with dates.
func NewParser(dates *datetime.Extractor) *Parser {
	if dates == nil {
		dates = datetime.NewExtractor(nil)
	}
	return &Parser{dates: dates}
}

// Parse returns the first matching rule's intent. ok is false when no rule
// applies and the caller should consult the generative interpreter.
func (p *Parser) Parse(text string) (Intent, bool) {
	it, _, ok := p.Explain(text)
	return it, ok
}

// Explain is Parse that also names the rule which matched.
func (p *Parser) Explain(text string) (Intent, string, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, "", false
	}
	in := newInput(text)
	for _, r := range rules {
		if it := r.match(p, in); it != nil {
			return it, r.name, true
		}
	}
	return nil, "", false
}

// ParseOrDefault is Parse with AIQuery as the result for unmatched text.
func (p *Parser) ParseOrDefault(text string) Intent {
	if it, ok := p.Parse(text); ok {
		return it
	}
	return AIQuery{Prompt: strings.TrimSpace(text)}
}

// Dates exposes the extractor the parser uses.
func (p *Parser) Dates() *datetime.Extractor { return p.dates }
