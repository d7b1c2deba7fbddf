// Package interpreter asks a generative model to resolve utterances the
// heuristic parser could not, and decodes its JSON answer.
package interpreter

import (
	"context"

	"github.com/rs/zerolog"
)

// Generator produces model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Interpreter is the generative fallback stage.
type Interpreter struct {
	gen Generator
	log zerolog.Logger
}

// New returns an Interpreter using gen.
func New(gen Generator, log zerolog.Logger) *Interpreter {
	return &Interpreter{gen: gen, log: log.With().Str("component", "interpreter").Logger()}
}

// Interpret makes exactly one generation call. It never fails: service
// errors and undecodable answers both produce an empty Result.
func (i *Interpreter) Interpret(ctx context.Context, text string) (Result, Outcome) {
	raw, err := i.gen.Generate(ctx, BuildPrompt(text))
	if err != nil {
		i.log.Warn().Err(err).Msg("Generative service unavailable")
		return Result{}, OutcomeUnavailable
	}
	res, outcome := Decode(raw)
	ev := i.log.Debug().Str("outcome", outcome.String())
	if outcome == OutcomeEmpty {
		ev = i.log.Info().Str("outcome", outcome.String()).Int("raw_len", len(raw))
	}
	ev.Msg("Model answer decoded")
	return res, outcome
}
