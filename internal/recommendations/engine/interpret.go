package engine

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultExpansionTimeout bounds the external expansion call.
	DefaultExpansionTimeout = 4 * time.Second
	maxExpansionTerms       = 7
)

// Expander enlarges a free-text query into related search terms. Implementations
// typically call a language model; the engine treats any failure as "no expansion".
type Expander interface {
	Expand(ctx context.Context, text string) ([]string, error)
}

// ExpanderFunc adapts a function to Expander.
type ExpanderFunc func(ctx context.Context, text string) ([]string, error)

func (f ExpanderFunc) Expand(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

// Filters are hard constraints applied by the candidate filter. Empty slices mean
// "no restriction".
type Filters struct {
	Categories    []string       `json:"categories,omitempty"`
	PricingModels []PricingModel `json:"pricingModels,omitempty"`
}

// Interpretation is the structured reading of a free-text query.
type Interpretation struct {
	Query      string   `json:"query"`
	Keywords   []string `json:"keywords"`
	Expansions []string `json:"expansions"`
	Filters    Filters  `json:"filters"`
	// PricePreferred is set when the query leans toward cheap tools without asking
	// for a pricing model outright. It raises price sensitivity instead of filtering.
	PricePreferred bool `json:"pricePreferred,omitempty"`
	Expanded       bool `json:"expanded"`
	// Fallback explains why expansion was skipped; empty when Expanded is true or
	// there was no query.
	Fallback string `json:"fallback,omitempty"`
}

// Terms returns the search terms: the literal query first, then expansions.
func (in Interpretation) Terms() []string {
	if strings.TrimSpace(in.Query) == "" {
		return nil
	}
	out := []string{strings.ToLower(strings.TrimSpace(in.Query))}
	for _, e := range in.Expansions {
		if e != out[0] {
			out = append(out, e)
		}
	}
	return out
}

// Interpreter turns a free-text query into terms and filters.
type Interpreter struct {
	Expander Expander
	Timeout  time.Duration
}

// Interpret never fails: expander errors, timeouts and empty answers degrade to the
// unexpanded query.
func (i Interpreter) Interpret(ctx context.Context, query string) Interpretation {
	query = strings.TrimSpace(query)
	if query == "" {
		return Interpretation{}
	}
	out := Interpretation{
		Query:    query,
		Keywords: keywords(query),
		Filters:  extractFilters(query),
	}
	out.PricePreferred = len(out.Filters.PricingModels) == 0 && prefersLowPrice(query)
	if i.Expander == nil {
		out.Fallback = "expander not configured"
		return out
	}

	timeout := i.Timeout
	if timeout <= 0 {
		timeout = DefaultExpansionTimeout
	}
	expandCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	terms, err := i.safeExpand(expandCtx, query)
	if err != nil {
		out.Fallback = err.Error()
		return out
	}
	out.Expansions = cleanExpansions(query, terms)
	if len(out.Expansions) == 0 {
		out.Fallback = "empty expansion"
		return out
	}
	out.Expanded = true
	return out
}

// safeExpand runs the expander on its own goroutine so a collaborator that ignores
// ctx still cannot hold the pipeline past the deadline.
func (i Interpreter) safeExpand(ctx context.Context, query string) ([]string, error) {
	type result struct {
		terms []string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: errExpanderPanic}
			}
		}()
		t, e := i.Expander.Expand(ctx, query)
		done <- result{terms: t, err: e}
	}()
	select {
	case r := <-done:
		return r.terms, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func cleanExpansions(query string, terms []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	seen := map[string]bool{q: true}
	out := make([]string, 0, maxExpansionTerms)
	for _, raw := range terms {
		term := strings.ToLower(strings.Join(strings.Fields(strings.Trim(raw, " \t\"'`*-•.")), " "))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
		if len(out) == maxExpansionTerms {
			break
		}
	}
	return out
}

// categoryPhrases maps explicit category mentions to catalog categories.
var categoryPhrases = []struct {
	phrase   string
	category string
}{
	{"project management", "Project Management"},
	{"customer support", "Customer Support"},
	{"developer tools", "Development"},
	{"development tools", "Development"},
	{"dev tools", "Development"},
	{"design tools", "Design"},
	{"marketing tools", "Marketing"},
	{"analytics tools", "Analytics"},
	{"communication tools", "Communication"},
	{"productivity tools", "Productivity"},
	{"security tools", "Security"},
	{"sales tools", "Sales"},
	{"crm", "Sales"},
	{"finance tools", "Finance"},
	{"accounting", "Finance"},
}

// hyphenatedPricing joins compounds that name a pricing model. Other hyphenated
// words stay whole, so "free-form" never reads as "free".
var hyphenatedPricing = map[string]string{
	"open-source":   "open source",
	"one-time":      "one time",
	"pay-as-you-go": "pay as you go",
	"usage-based":   "usage based",
}

// freeOnlyPhrases ask for free tools outright. A leading "free" counts too.
var freeOnlyPhrases = []string{
	"free only", "only free", "for free", "free tool", "free tools", "free app", "free apps",
	"free software", "free alternative", "free alternatives", "free plan", "free tier",
}

var lowPriceWords = map[string]struct{}{
	"free": {}, "cheap": {}, "cheaper": {}, "affordable": {}, "inexpensive": {}, "budget": {}, "low-cost": {},
}

func extractFilters(query string) Filters {
	lower := " " + strings.Join(keywordsWithStopwords(query), " ") + " "
	var f Filters
	seenCat := map[string]bool{}
	for _, cp := range categoryPhrases {
		if strings.Contains(lower, " "+cp.phrase+" ") && !seenCat[cp.category] {
			seenCat[cp.category] = true
			f.Categories = append(f.Categories, cp.category)
		}
	}

	tokens := pricingTokens(query)
	priced := " " + strings.Join(tokens, " ") + " "
	switch {
	case strings.Contains(priced, " open source "):
		f.PricingModels = []PricingModel{PricingFree}
	case asksForFree(tokens, priced):
		f.PricingModels = []PricingModel{PricingFree, PricingFreemium}
	case strings.Contains(priced, " one time "), strings.Contains(priced, " lifetime "):
		f.PricingModels = []PricingModel{PricingOneTime}
	case strings.Contains(priced, " pay as you go "), strings.Contains(priced, " usage based "):
		f.PricingModels = []PricingModel{PricingUsageBased}
	}
	return f
}

// pricingTokens splits like keywordsWithStopwords but keeps hyphenated words whole,
// expanding only the compounds that name a pricing model.
func pricingTokens(query string) []string {
	raw := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if joined, ok := hyphenatedPricing[t]; ok {
			out = append(out, strings.Fields(joined)...)
			continue
		}
		out = append(out, t)
	}
	return out
}

func asksForFree(tokens []string, priced string) bool {
	if len(tokens) > 1 && tokens[0] == "free" {
		return true
	}
	for _, p := range freeOnlyPhrases {
		if strings.Contains(priced, " "+p+" ") {
			return true
		}
	}
	return false
}

// prefersLowPrice reports a standalone cost word. "free of" and "free from" describe
// something other than price.
func prefersLowPrice(query string) bool {
	tokens := pricingTokens(query)
	for i, t := range tokens {
		if _, ok := lowPriceWords[t]; !ok {
			continue
		}
		if t == "free" && i+1 < len(tokens) && (tokens[i+1] == "of" || tokens[i+1] == "from") {
			continue
		}
		return true
	}
	return false
}

func keywordsWithStopwords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == '-' || r == ',' || r == '.' || r == '?' || r == '!' || r == '\t' || r == '\n'
	})
}
