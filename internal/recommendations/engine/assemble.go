package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	redundancyThreshold = 0.5
	budgetTopN          = 3
)

// Insights are aggregate observations about the user's stack and the recommendations.
type Insights struct {
	Redundancies    []Redundancy     `json:"redundancies"`
	Budget          BudgetSummary    `json:"budget"`
	CategoryGaps    []CategoryGap    `json:"categoryGaps"`
	ComplianceNotes []ComplianceNote `json:"complianceNotes"`
}

// Redundancy flags a recommendation whose features largely repeat a current tool.
type Redundancy struct {
	CurrentTool       string  `json:"currentTool"`
	RecommendedToolID string  `json:"recommendedToolId"`
	RecommendedTool   string  `json:"recommendedTool"`
	Overlap           float64 `json:"overlap"`
}

// BudgetSummary compares current spend with spend after adopting the top
// recommendations. Amounts are monthly and cover every seat.
type BudgetSummary struct {
	CurrentMonthly   float64  `json:"currentMonthly"`
	ProjectedMonthly float64  `json:"projectedMonthly"`
	Delta            float64  `json:"delta"`
	UnpricedTools    []string `json:"unpricedTools,omitempty"`
	Note             string   `json:"note"`
}

// CategoryGap is a category the user spends time on without owning a tool in it.
type CategoryGap struct {
	Category          string  `json:"category"`
	Interest          float64 `json:"interest"`
	SuggestedToolID   string  `json:"suggestedToolId,omitempty"`
	SuggestedToolName string  `json:"suggestedToolName,omitempty"`
}

// ComplianceNote lists which recommendations mention a compliance requirement.
type ComplianceNote struct {
	Requirement string   `json:"requirement"`
	ToolIDs     []string `json:"toolIds"`
	Note        string   `json:"note"`
}

// Assemble derives insights from the final list. recs is read-only here.
func Assemble(recs []RecommendedTool, catalog []ToolRecord, currentTools []string, sig Signals, rc RecommendationContext) Insights {
	owned := ownedRecords(catalog, currentTools)
	seats := max(1, sig.TeamSize)
	return Insights{
		Redundancies:    redundancies(recs, owned),
		Budget:          budgetSummary(recs, owned, currentTools, seats, rc),
		CategoryGaps:    categoryGaps(recs, owned, sig.CategoryWeights, sig.CategoryLabels),
		ComplianceNotes: complianceNotes(recs, sig.Compliance),
	}
}

// ownedRecords resolves current tool names or ids against the catalog. Malformed
// records are skipped so their prices never reach the budget.
func ownedRecords(catalog []ToolRecord, currentTools []string) []ToolRecord {
	want := toSet(currentTools)
	seen := make(map[string]bool, len(want))
	var out []ToolRecord
	for _, t := range catalog {
		if !ValidRecord(t) {
			continue
		}
		_, byName := want[NormalizeName(t.Name)]
		_, byID := want[NormalizeName(t.ID)]
		if (byName || byID) && !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out
}

func featureSet(t ToolRecord) map[string]struct{} {
	return toSet(append(append([]string{}, t.Features...), t.Tags...))
}

// overlapCoefficient is |A∩B| / min(|A|,|B|).
func overlapCoefficient(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return float64(n) / float64(min(len(a), len(b)))
}

func redundancies(recs []RecommendedTool, owned []ToolRecord) []Redundancy {
	out := []Redundancy{}
	for _, cur := range owned {
		curSet := featureSet(cur)
		for _, r := range recs {
			ov := overlapCoefficient(curSet, featureSet(r.Tool))
			if ov >= redundancyThreshold {
				out = append(out, Redundancy{
					CurrentTool:       cur.Name,
					RecommendedToolID: r.Tool.ID,
					RecommendedTool:   r.Tool.Name,
					Overlap:           math.Round(ov*100) / 100,
				})
			}
		}
	}
	return out
}

func budgetSummary(recs []RecommendedTool, owned []ToolRecord, currentTools []string, seats int, rc RecommendationContext) BudgetSummary {
	var b BudgetSummary
	priced := make(map[string]bool)
	replacedKey := NormalizeName(rc.ReplacingTool)
	replacedMonthly := 0.0
	for _, t := range owned {
		m, known := MonthlyCost(t.Pricing)
		cost := m * float64(seats)
		b.CurrentMonthly += cost
		if !known {
			b.UnpricedTools = append(b.UnpricedTools, t.Name)
		}
		priced[NormalizeName(t.Name)] = true
		priced[NormalizeName(t.ID)] = true
		if replacedKey != "" && (replacedKey == NormalizeName(t.Name) || replacedKey == NormalizeName(t.ID)) {
			replacedMonthly = cost
		}
	}
	for _, name := range currentTools {
		if key := NormalizeName(name); key != "" && !priced[key] {
			b.UnpricedTools = append(b.UnpricedTools, strings.TrimSpace(name))
			priced[key] = true
		}
	}

	added := 0.0
	top := recs[:min(budgetTopN, len(recs))]
	for _, r := range top {
		m, _ := MonthlyCost(r.Tool.Pricing)
		added += m * float64(seats)
	}
	b.ProjectedMonthly = b.CurrentMonthly + added - replacedMonthly
	b.CurrentMonthly = roundCents(b.CurrentMonthly)
	b.ProjectedMonthly = roundCents(math.Max(0, b.ProjectedMonthly))
	b.Delta = roundCents(b.ProjectedMonthly - b.CurrentMonthly)

	switch {
	case len(top) == 0:
		b.Note = "no recommendations to budget for"
	case b.Delta < 0:
		b.Note = fmt.Sprintf("adopting the top %d recommendations saves about $%.2f/month", len(top), -b.Delta)
	case b.Delta == 0:
		b.Note = fmt.Sprintf("the top %d recommendations add no monthly cost", len(top))
	default:
		b.Note = fmt.Sprintf("adopting the top %d recommendations adds about $%.2f/month", len(top), b.Delta)
	}
	if len(b.UnpricedTools) > 0 {
		b.Note += fmt.Sprintf("; %d current tool(s) have no catalog price", len(b.UnpricedTools))
	}
	return b
}

// roundCents rounds to cents and maps non-finite sums to 0 so the summary always
// encodes as JSON.
func roundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func categoryGaps(recs []RecommendedTool, owned []ToolRecord, weights map[string]float64, labels map[string]string) []CategoryGap {
	covered := make(map[string]bool, len(owned))
	for _, t := range owned {
		covered[NormalizeName(t.Category)] = true
	}
	gaps := []CategoryGap{}
	for cat, w := range weights {
		if covered[cat] {
			continue
		}
		label := labels[cat]
		if label == "" {
			label = cat
		}
		g := CategoryGap{Category: label, Interest: math.Round(w*100) / 100}
		for _, r := range recs {
			if NormalizeName(r.Tool.Category) == cat {
				g.Category = r.Tool.Category
				g.SuggestedToolID = r.Tool.ID
				g.SuggestedToolName = r.Tool.Name
				break
			}
		}
		gaps = append(gaps, g)
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Interest != gaps[j].Interest {
			return gaps[i].Interest > gaps[j].Interest
		}
		return NormalizeName(gaps[i].Category) < NormalizeName(gaps[j].Category)
	})
	return gaps
}

func complianceNotes(recs []RecommendedTool, requirements []string) []ComplianceNote {
	out := []ComplianceNote{}
	for _, req := range requirements {
		n := ComplianceNote{Requirement: req, ToolIDs: []string{}}
		for _, r := range recs {
			if newHaystack(r.Tool).mentions(req) {
				n.ToolIDs = append(n.ToolIDs, r.Tool.ID)
			}
		}
		switch {
		case len(recs) == 0:
			n.Note = "no recommendations to check"
		case len(n.ToolIDs) == 0:
			n.Note = fmt.Sprintf("no recommended tool lists %s; verify with the vendor", req)
		default:
			n.Note = fmt.Sprintf("%d of %d recommended tools list %s", len(n.ToolIDs), len(recs), req)
		}
		out = append(out, n)
	}
	return out
}
