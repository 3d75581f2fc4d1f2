// Package recommendation asks a text generation model for health advice on a record.
package recommendation

import (
	"context"
	"errors"

	"health-assistant/internal/llm"
	"health-assistant/internal/record"

	"github.com/rs/zerolog/log"
)

// Status tells callers what happened to a request.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"  // the model answered with no text or declined
	StatusFailed Status = "failed" // transport, auth, quota or configuration error
)

// Result is the outcome of one recommendation request.
// Text is the model output exactly as returned.
type Result struct {
	Status Status `json:"status"`
	Text   string `json:"text,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// OK reports whether Text holds a recommendation.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Requester turns a record into a prompt and sends it to a generator.
type Requester struct {
	gen llm.Generator
}

// NewRequester returns a Requester backed by gen.
func NewRequester(gen llm.Generator) *Requester {
	return &Requester{gen: gen}
}

// Request makes exactly one generator call for rec.
func (r *Requester) Request(ctx context.Context, rec record.HealthRecord) Result {
	logger := log.Ctx(ctx)

	prompt, err := BuildPrompt(rec)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build recommendation prompt")
		return Result{Status: StatusFailed, Reason: err.Error()}
	}

	text, err := r.gen.Generate(ctx, prompt)
	switch {
	case errors.Is(err, llm.ErrNoContent):
		logger.Warn().Err(err).Msg("Model returned no recommendation")
		return Result{Status: StatusEmpty, Reason: err.Error()}
	case err != nil:
		logger.Error().Err(err).Msg("Recommendation request failed")
		return Result{Status: StatusFailed, Reason: err.Error()}
	case text == "":
		return Result{Status: StatusEmpty, Reason: llm.ErrNoContent.Error()}
	}

	logger.Info().Int("length", len(text)).Msg("Recommendation received")
	return Result{Status: StatusOK, Text: text}
}
