// Package engine ranks catalog tools for a user. Every call is a pure transform of
// its request; the only blocking step is the optional query expansion.
package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Options configure an Engine. Zero values select the defaults.
type Options struct {
	DiversityCap     float64
	ExpansionTimeout time.Duration
	DefaultLimit     int
}

// Engine runs the ranking pipeline. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	interpreter Interpreter
	opts        Options
}

// New builds an Engine. expander may be nil, in which case queries are never expanded.
func New(expander Expander, opts Options) *Engine {
	if opts.DiversityCap == 0 {
		opts.DiversityCap = DefaultDiversityCap
	}
	if opts.ExpansionTimeout <= 0 {
		opts.ExpansionTimeout = DefaultExpansionTimeout
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	return &Engine{
		interpreter: Interpreter{Expander: expander, Timeout: opts.ExpansionTimeout},
		opts:        opts,
	}
}

// Request is the single entry point input.
type Request struct {
	Profile        *UserProfile
	Behavior       UserBehavior
	CurrentTools   []string
	Context        RecommendationContext
	AvailableTools []ToolRecord
	Limit          int
	Query          string
	// Filters are explicit hard filters; a non-empty dimension overrides what the
	// interpreter extracted from the query.
	Filters Filters
	// DiversityCap overrides the engine default when non-zero.
	DiversityCap float64
}

// Result is the ranked, annotated output.
type Result struct {
	Recommendations []RecommendedTool `json:"recommendations"`
	Insights        Insights          `json:"insights"`
	Diagnostics     []Diagnostic      `json:"diagnostics"`
	Interpretation  Interpretation    `json:"interpretation"`
}

// Recommend ranks req.AvailableTools. Only caller contract violations and context
// cancellation are returned as errors; everything else degrades to a smaller or
// empty result.
func (e *Engine) Recommend(ctx context.Context, req Request) (Result, error) {
	limit, capFraction, err := e.validate(req)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// Expansion is the only blocking step; normalisation runs alongside it.
	var (
		sig    Signals
		interp Interpretation
		g      errgroup.Group
	)
	g.Go(func() error {
		interp = e.interpreter.Interpret(ctx, req.Query)
		return nil
	})
	g.Go(func() error {
		sig = NormalizeSignals(req.Profile, req.Behavior, req.CurrentTools)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	excluded := req.CurrentTools
	if req.Context.ReplacingTool != "" {
		excluded = append(append([]string{}, req.CurrentTools...), req.Context.ReplacingTool)
	}
	filters := MergeFilters(req.Filters, interp.Filters)
	candidates, diags := FilterCandidates(req.AvailableTools, excluded, filters)
	replaced := LookupTool(req.AvailableTools, req.Context.ReplacingTool)

	scored := ScoreAll(candidates, sig, interp, req.Context, replaced)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	selected := Diversify(scored, limit, capFraction)
	recs := Estimate(selected, req.Profile, req.Context, replaced)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if diags == nil {
		diags = []Diagnostic{}
	}
	return Result{
		Recommendations: recs,
		Insights:        Assemble(recs, req.AvailableTools, req.CurrentTools, sig, req.Context),
		Diagnostics:     diags,
		Interpretation:  interp,
	}, nil
}

func (e *Engine) validate(req Request) (int, float64, error) {
	if req.Limit < 0 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrInvalidLimit, req.Limit)
	}
	limit := req.Limit
	if limit == 0 {
		limit = e.opts.DefaultLimit
	}
	limit = min(limit, MaxLimit)

	capFraction := e.opts.DiversityCap
	if req.DiversityCap != 0 {
		capFraction = req.DiversityCap
	}
	if !(capFraction > 0 && capFraction <= 1) {
		return 0, 0, fmt.Errorf("%w: got %v", ErrInvalidDiversityCap, capFraction)
	}
	return limit, capFraction, nil
}

// MergeFilters combines explicit and interpreted filters per dimension, explicit
// winning whenever it is non-empty.
func MergeFilters(explicit, interpreted Filters) Filters {
	out := interpreted
	if len(explicit.Categories) > 0 {
		out.Categories = explicit.Categories
	}
	if len(explicit.PricingModels) > 0 {
		out.PricingModels = explicit.PricingModels
	}
	return out
}

// LookupTool finds a catalog tool by normalized name or id.
func LookupTool(catalog []ToolRecord, nameOrID string) *ToolRecord {
	key := NormalizeName(nameOrID)
	if key == "" {
		return nil
	}
	for i := range catalog {
		if !ValidRecord(catalog[i]) {
			continue
		}
		if NormalizeName(catalog[i].Name) == key || NormalizeName(catalog[i].ID) == key {
			t := catalog[i]
			return &t
		}
	}
	return nil
}
