package engine

import (
	"context"
	"errors"
	"fmt"
)

func price(v float64) *float64 { return &v }

func f64(v float64) *float64 { return &v }

func editorCatalog() []ToolRecord {
	return []ToolRecord{
		{
			ID:           "vscode",
			Name:         "VS Code",
			Category:     "Development",
			Description:  "Lightweight source code editor",
			Features:     []string{"TypeScript support", "Extensions", "Git integration"},
			Tags:         []string{"editor", "ide"},
			Pricing:      Pricing{Model: PricingFree},
			Rating:       4.8,
			ReviewCount:  30000,
			Integrations: []string{"GitHub", "Docker"},
		},
		{
			ID:           "webstorm",
			Name:         "WebStorm",
			Category:     "Development",
			Description:  "JavaScript IDE",
			Features:     []string{"TypeScript support", "React support", "Refactoring"},
			Tags:         []string{"ide"},
			Pricing:      Pricing{Model: PricingSubscription, StartingPrice: price(69), BillingPeriod: "month"},
			Rating:       4.7,
			ReviewCount:  5000,
			Integrations: []string{"GitHub"},
		},
		{
			ID:           "sublime",
			Name:         "Sublime Text",
			Category:     "Development",
			Description:  "Fast text editor",
			Features:     []string{"Multiple cursors", "Command palette"},
			Tags:         []string{"editor"},
			Pricing:      Pricing{Model: PricingOneTime, StartingPrice: price(80)},
			Rating:       4.5,
			ReviewCount:  3000,
			Integrations: nil,
		},
	}
}

// twin returns a copy of base with a new id and name so only the fields the caller
// changes differ.
func twin(base ToolRecord, id string) ToolRecord {
	t := base
	t.ID = id
	t.Name = "Tool " + id
	t.Features = append([]string{}, base.Features...)
	t.Tags = append([]string{}, base.Tags...)
	t.Integrations = append([]string{}, base.Integrations...)
	return t
}

func genericTool(id, category string, rating float64) ToolRecord {
	return ToolRecord{
		ID:          id,
		Name:        "Tool " + id,
		Category:    category,
		Description: category + " tool",
		Features:    []string{"collaboration"},
		Pricing:     Pricing{Model: PricingFreemium},
		Rating:      rating,
		ReviewCount: 100,
	}
}

// skewedCatalog is dominated by one category with a few scattered others.
func skewedCatalog(dominant, others int) []ToolRecord {
	var out []ToolRecord
	for i := 0; i < dominant; i++ {
		out = append(out, genericTool(fmt.Sprintf("dev-%02d", i), "Development", 4.9))
	}
	cats := []string{"Design", "Marketing", "Analytics", "Finance", "Sales"}
	for i := 0; i < others; i++ {
		out = append(out, genericTool(fmt.Sprintf("other-%02d", i), cats[i%len(cats)], 3.5))
	}
	return out
}

func names(recs []RecommendedTool) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Tool.Name)
	}
	return out
}

type stubExpander struct {
	terms []string
	err   error
	calls int
}

func (s *stubExpander) Expand(_ context.Context, _ string) ([]string, error) {
	s.calls++
	return s.terms, s.err
}

var errUpstream = errors.New("upstream unavailable")
