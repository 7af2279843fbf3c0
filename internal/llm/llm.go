package llm

import (
	"context"
	"errors"
)

// Completer abstracts LLM providers behind a single text-completion call.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ErrEmptyResponse is returned when a provider answers without text.
var ErrEmptyResponse = errors.New("llm response empty")
