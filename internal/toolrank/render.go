package toolrank

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"toolfinder-backend/internal/recommendations/engine"
)

var (
	colorAccent = lipgloss.Color("#7aa2f7")
	colorGood   = lipgloss.Color("#9ece6a")
	colorWarn   = lipgloss.Color("#e0af68")
	colorMuted  = lipgloss.Color("#565f89")

	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

type column struct {
	title string
	width int
}

var rankColumns = []column{
	{"#", 3},
	{"Tool", 18},
	{"Category", 18},
	{"Score", 6},
	{"Effort", 16},
	{"Saves", 14},
	{"Why", 52},
}

func renderRow(cells []string, style func(i int) lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = style(i).Width(rankColumns[i].width).PaddingRight(1).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.7:
		return lipgloss.NewStyle().Foreground(colorGood)
	case score >= 0.5:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return mutedStyle
	}
}

func renderResult(w io.Writer, res engine.Result) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d recommendations", len(res.Recommendations))))
	if terms := res.Interpretation.Terms(); len(terms) > 0 {
		fmt.Fprintln(w, mutedStyle.Render("search: "+strings.Join(terms, ", ")))
	}

	header := make([]string, len(rankColumns))
	for i, c := range rankColumns {
		header[i] = c.title
	}
	fmt.Fprintln(w, renderRow(header, func(int) lipgloss.Style { return headerStyle }))

	for i, rec := range res.Recommendations {
		cells := []string{
			strconv.Itoa(i + 1),
			rec.Tool.Name,
			rec.Tool.Category,
			fmt.Sprintf("%.2f", rec.RecommendationScore),
			string(rec.ImplementationEffort),
			rec.ExpectedROI.TimeSavings,
			rec.Rationale,
		}
		fmt.Fprintln(w, renderRow(cells, func(col int) lipgloss.Style {
			if col == 3 {
				return scoreStyle(rec.RecommendationScore)
			}
			return lipgloss.NewStyle()
		}))
	}

	if summary := insightLines(res); len(summary) > 0 {
		fmt.Fprintln(w, panelStyle.Render(strings.Join(summary, "\n")))
	}
}

func insightLines(res engine.Result) []string {
	var lines []string
	b := res.Insights.Budget
	if b.CurrentMonthly > 0 || b.ProjectedMonthly > 0 {
		lines = append(lines, fmt.Sprintf("Budget: $%.2f/month now, $%.2f/month with the top picks (%+.2f)", b.CurrentMonthly, b.ProjectedMonthly, b.Delta))
	}
	for _, r := range res.Insights.Redundancies {
		lines = append(lines, fmt.Sprintf("Overlap: %s repeats %.0f%% of %s", r.RecommendedTool, r.Overlap*100, r.CurrentTool))
	}
	for _, g := range res.Insights.CategoryGaps {
		lines = append(lines, "Gap: "+g.Category)
	}
	for _, d := range res.Diagnostics {
		lines = append(lines, fmt.Sprintf("Skipped %s: %s", firstNonEmpty(d.ToolID, d.ToolName, "record"), d.Reason))
	}
	return lines
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
