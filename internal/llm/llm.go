// Package llm defines the text generation contract used for recommendations.
package llm

import (
	"context"
	"errors"
)

// ErrNoContent means the model answered without any text, including when it
// declined to answer.
var ErrNoContent = errors.New("model returned no content")

// Generator turns a single prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
