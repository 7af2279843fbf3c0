package recommendations

import (
	"fmt"
	"strings"

	"toolfinder-backend/internal/recommendations/engine"
)

// RecommendRequest is the POST /recommendations body. Absent profile, behavior
// and current tools fall back to the caller's stored profile.
type RecommendRequest struct {
	Query         string                       `json:"query"`
	Profile       *engine.UserProfile          `json:"profile"`
	Behavior      *engine.UserBehavior         `json:"behavior"`
	CurrentTools  []string                     `json:"currentTools"`
	Context       engine.RecommendationContext `json:"context"`
	Limit         int                          `json:"limit"`
	Category      string                       `json:"category"`
	Categories    []string                     `json:"categories"`
	PricingModels []string                     `json:"pricingModels"`
	DiversityCap  float64                      `json:"diversityCap"`
}

// RecommendResponse is the POST /recommendations reply.
type RecommendResponse struct {
	Recommendations []engine.RecommendedTool `json:"recommendations"`
	Insights        engine.Insights          `json:"insights"`
	Diagnostics     []engine.Diagnostic      `json:"diagnostics"`
	ExpandedTerms   []string                 `json:"expandedTerms"`
	Interpretation  engine.Interpretation    `json:"interpretation"`
	ProfileSource   string                   `json:"profileSource"`
}

const (
	ProfileFromRequest = "request"
	ProfileFromStore   = "stored"
	ProfileNone        = "none"
)

// ExplainRequest asks for a narrative explanation of one recommended tool.
type ExplainRequest struct {
	RecommendRequest
	ToolID string `json:"toolId"`
}

// ExplainResponse carries the explanation as markdown and sanitized HTML.
type ExplainResponse struct {
	ToolID    string  `json:"toolId"`
	ToolName  string  `json:"toolName"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
	Markdown  string  `json:"markdown"`
	HTML      string  `json:"html"`
	Source    string  `json:"source"`
}

func (r RecommendRequest) filters() (engine.Filters, error) {
	var f engine.Filters
	if c := strings.TrimSpace(r.Category); c != "" {
		f.Categories = append(f.Categories, c)
	}
	for _, c := range r.Categories {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}
	for _, raw := range r.PricingModels {
		model, ok := engine.ParsePricingModel(raw)
		if !ok {
			return engine.Filters{}, fmt.Errorf("%w: unknown pricing model %q", ErrInvalidRequest, raw)
		}
		f.PricingModels = append(f.PricingModels, model)
	}
	return f, nil
}
