package catalog

import (
	"context"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu          sync.RWMutex
	tools       map[string]Tool
	submissions map[string]Submission
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tools:       make(map[string]Tool),
		submissions: make(map[string]Submission),
	}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sortTools(out)
	return out, nil
}

func (r *MemoryRepo) ListByCategory(ctx context.Context, category string) ([]Tool, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Tool, 0, len(all))
	for _, t := range all {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Tool, error) {
	if err := ctx.Err(); err != nil {
		return Tool{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[id]
	if !ok {
		return Tool{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, tool Tool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.ID] = tool
	return nil
}

func (r *MemoryRepo) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return computeStats(all), nil
}

func (r *MemoryRepo) CreateSubmission(ctx context.Context, sub Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[sub.ID] = sub
	return nil
}

// Submissions returns stored submissions in no particular order.
func (r *MemoryRepo) Submissions() []Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		out = append(out, s)
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
