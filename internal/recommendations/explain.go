package recommendations

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"toolfinder-backend/internal/llm"
	"toolfinder-backend/internal/recommendations/engine"
	"toolfinder-backend/internal/shared/metrics"
	"toolfinder-backend/internal/shared/telemetry"
)

const (
	SourceLLM       = "llm"
	SourceRationale = "rationale"
)

// Explainer turns a ranked tool into a short markdown note rendered to HTML.
// Raw HTML in model output is not passed through.
type Explainer struct {
	LLM llm.Completer
	md  goldmark.Markdown
}

func NewExplainer(c llm.Completer) *Explainer {
	return &Explainer{
		LLM: c,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Explain never fails; without a model, or when the model errors, the ranking
// rationale is rendered instead.
func (e *Explainer) Explain(ctx context.Context, rec engine.RecommendedTool, profile *engine.UserProfile) ExplainResponse {
	resp := ExplainResponse{
		ToolID:    rec.Tool.ID,
		ToolName:  rec.Tool.Name,
		Score:     rec.RecommendationScore,
		Rationale: rec.Rationale,
		Source:    SourceRationale,
	}
	markdown := fallbackMarkdown(rec)
	if e != nil && e.LLM != nil {
		prompt, _ := llm.RenderPrompt("explain_v1", map[string]string{
			"tool":      describeTool(rec.Tool),
			"profile":   describeProfile(profile),
			"rationale": rec.Rationale,
		})
		out, err := e.LLM.Complete(ctx, llm.SystemExplain, prompt)
		if err != nil {
			telemetry.Warn("recommendations.explain_fallback", map[string]any{"tool_id": rec.Tool.ID, "error": err})
		} else {
			markdown = strings.TrimSpace(out)
			resp.Source = SourceLLM
		}
	}
	resp.Markdown = markdown
	resp.HTML = e.render(markdown)
	metrics.IncExplanationRendered(resp.Source)
	return resp
}

func (e *Explainer) render(markdown string) string {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if e != nil && e.md != nil {
		md = e.md
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "<p>" + html.EscapeString(markdown) + "</p>"
	}
	return buf.String()
}

func fallbackMarkdown(rec engine.RecommendedTool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Why %s\n\n", rec.Tool.Name)
	if rec.Rationale != "" {
		fmt.Fprintf(&b, "- Recommended for %s.\n", rec.Rationale)
	}
	fmt.Fprintf(&b, "- Implementation effort: %s.\n", strings.ReplaceAll(string(rec.ImplementationEffort), "_", " "))
	fmt.Fprintf(&b, "- Expected time savings: %s.\n", rec.ExpectedROI.TimeSavings)
	if rec.ExpectedROI.CostSavings > 0 {
		fmt.Fprintf(&b, "- Estimated cost savings: $%.0f per month.\n", rec.ExpectedROI.CostSavings)
	}
	return b.String()
}

func describeTool(t engine.ToolRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nCategory: %s\n", t.Name, t.Category)
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}
	if len(t.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(t.Features, ", "))
	}
	if len(t.Integrations) > 0 {
		fmt.Fprintf(&b, "Integrations: %s\n", strings.Join(t.Integrations, ", "))
	}
	fmt.Fprintf(&b, "Pricing: %s", t.Pricing.Model)
	if t.Pricing.StartingPrice != nil {
		fmt.Fprintf(&b, " from $%.2f", *t.Pricing.StartingPrice)
		if t.Pricing.BillingPeriod != "" {
			fmt.Fprintf(&b, " (%s)", t.Pricing.BillingPeriod)
		}
	}
	fmt.Fprintf(&b, "\nRating: %.1f from %d reviews", t.Rating, t.ReviewCount)
	return b.String()
}

func describeProfile(p *engine.UserProfile) string {
	if p == nil {
		return "No profile provided."
	}
	var parts []string
	if p.CompanySize != "" {
		parts = append(parts, "Company size: "+string(p.CompanySize))
	}
	if p.TeamSize > 0 {
		parts = append(parts, fmt.Sprintf("Team size: %d", p.TeamSize))
	}
	if p.ExperienceLevel != "" {
		parts = append(parts, "Experience: "+string(p.ExperienceLevel))
	}
	if p.BudgetRange != "" {
		parts = append(parts, "Budget: "+string(p.BudgetRange))
	}
	if len(p.FeatureNeeds) > 0 {
		parts = append(parts, "Needs: "+strings.Join(p.FeatureNeeds, ", "))
	}
	if len(p.IntegrationNeeds) > 0 {
		parts = append(parts, "Must integrate with: "+strings.Join(p.IntegrationNeeds, ", "))
	}
	if len(parts) == 0 {
		return "No profile details provided."
	}
	return strings.Join(parts, "\n")
}
