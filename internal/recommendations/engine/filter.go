package engine

import (
	"fmt"
	"math"
	"strings"
)

// MaxStartingPrice is the largest listed price a record may carry. Anything above it
// is treated as corrupt data rather than a real price.
const MaxStartingPrice = 1_000_000

// Candidate is a tool still eligible for scoring. Index is the catalog position and
// serves as the final tie-breaker.
type Candidate struct {
	Tool  ToolRecord
	Index int
}

// FilterCandidates drops tools the user already has, tools failing the hard filters,
// malformed records and duplicate ids. Catalog order is preserved.
func FilterCandidates(tools []ToolRecord, currentTools []string, filters Filters) ([]Candidate, []Diagnostic) {
	owned := toSet(currentTools)
	categories := toSet(filters.Categories)
	pricing := make(map[PricingModel]bool, len(filters.PricingModels))
	for _, m := range filters.PricingModels {
		pricing[m] = true
	}

	seenIDs := make(map[string]bool, len(tools))
	out := make([]Candidate, 0, len(tools))
	var diags []Diagnostic
	for i, tool := range tools {
		if err := validateRecord(tool); err != nil {
			diags = append(diags, Diagnostic{ToolID: tool.ID, ToolName: tool.Name, Reason: err.Error()})
			continue
		}
		if seenIDs[tool.ID] {
			diags = append(diags, Diagnostic{ToolID: tool.ID, ToolName: tool.Name, Reason: "duplicate tool id"})
			continue
		}
		seenIDs[tool.ID] = true

		if isOwned(tool, owned) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[NormalizeName(tool.Category)]; !ok {
				continue
			}
		}
		if len(pricing) > 0 && !pricing[tool.Pricing.Model] {
			continue
		}
		out = append(out, Candidate{Tool: tool, Index: i})
	}
	return out, diags
}

func isOwned(tool ToolRecord, owned map[string]struct{}) bool {
	if len(owned) == 0 {
		return false
	}
	if _, ok := owned[NormalizeName(tool.Name)]; ok {
		return true
	}
	_, ok := owned[NormalizeName(tool.ID)]
	return ok
}

func validateRecord(t ToolRecord) error {
	switch {
	case strings.TrimSpace(t.ID) == "":
		return fmt.Errorf("missing id")
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("missing name")
	case strings.TrimSpace(t.Category) == "":
		return fmt.Errorf("missing category")
	case !t.Pricing.Model.Valid():
		return fmt.Errorf("unknown pricing model %q", t.Pricing.Model)
	case t.Rating < 0 || t.Rating > 5 || t.Rating != t.Rating:
		return fmt.Errorf("rating %.2f out of range", t.Rating)
	case t.ReviewCount < 0:
		return fmt.Errorf("negative review count")
	case t.Pricing.StartingPrice != nil && !validPrice(*t.Pricing.StartingPrice):
		return fmt.Errorf("invalid starting price")
	}
	return nil
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= MaxStartingPrice
}

// ValidRecord reports whether t would pass the candidate filter's record checks.
func ValidRecord(t ToolRecord) bool {
	return validateRecord(t) == nil
}
