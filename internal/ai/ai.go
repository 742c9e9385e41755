package ai

import (
	"context"
	"errors"
)

// Sampling parameters shared by every provider. Callers never override them.
const (
	Temperature      = 0.5
	MaxOutputTokens  = 1024
	TopP             = 1.0
	FrequencyPenalty = 0.0
	PresencePenalty  = 0.0
)

var ErrMissingAPIKey = errors.New("missing API key")

// Generator turns a directive prompt plus a body of text into generated text.
type Generator interface {
	Generate(ctx context.Context, directive, body string) (string, error)
}

// Noop returns an empty result for every request. Used by dry runs.
type Noop struct{}

func (Noop) Generate(ctx context.Context, directive, body string) (string, error) { return "", nil }
