package recommendations

import (
	"context"
	"errors"
	"strings"

	"toolfinder-backend/internal/llm"
	"toolfinder-backend/internal/recommendations/engine"
)

// LLMExpander expands search queries with a language model.
type LLMExpander struct {
	LLM llm.Completer
}

// NewLLMExpander returns nil when no completer is configured so the engine skips expansion.
func NewLLMExpander(c llm.Completer) engine.Expander {
	if c == nil {
		return nil
	}
	return &LLMExpander{LLM: c}
}

func (e *LLMExpander) Expand(ctx context.Context, text string) ([]string, error) {
	prompt, ok := llm.RenderPrompt("expand_v1", map[string]string{"query": text})
	if !ok {
		return nil, errors.New("expand prompt missing")
	}
	out, err := e.LLM.Complete(ctx, llm.SystemExpand, prompt)
	if err != nil {
		return nil, err
	}
	return splitTerms(out), nil
}

// splitTerms accepts comma, semicolon or line separated output, with or without
// list markers.
func splitTerms(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		f = strings.TrimLeft(f, "0123456789")
		f = strings.TrimLeft(f, ".)")
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
