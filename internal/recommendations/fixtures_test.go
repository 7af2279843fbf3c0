package recommendations

import (
	"context"
	"errors"
	"sync"

	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/recommendations/engine"
)

type stubCompleter struct {
	mu      sync.Mutex
	out     string
	err     error
	calls   int
	prompts []string
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.out, s.err
}

type stubCatalog struct {
	tools []engine.ToolRecord
	err   error
}

func (s stubCatalog) AvailableTools(ctx context.Context) ([]engine.ToolRecord, error) {
	return s.tools, s.err
}

type stubSessions struct {
	profile  *engine.UserProfile
	behavior engine.UserBehavior
	current  []string
	found    bool
	err      error
	lookups  int
}

func (s *stubSessions) Lookup(ctx context.Context, userID string) (*engine.UserProfile, engine.UserBehavior, []string, bool, error) {
	s.lookups++
	return s.profile, s.behavior, s.current, s.found, s.err
}

var errStore = errors.New("store down")

func newTestService(c *stubCompleter, sessions Sessions) *Service {
	var expander engine.Expander
	if c != nil {
		expander = NewLLMExpander(c)
	}
	return &Service{
		Engine:    engine.New(expander, engine.Options{}),
		Catalog:   stubCatalog{tools: catalog.DemoCatalog()},
		Sessions:  sessions,
		Explainer: NewExplainer(nil),
	}
}

func recIDs(recs []engine.RecommendedTool) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Tool.ID)
	}
	return out
}
