package engine

import (
	"math"
	"strings"
)

const (
	defaultPriceSensitivity       = 0.5
	defaultIntegrationImportance  = 0.3
	declaredIntegrationImportance = 0.6
)

// Signals is the normalized view of profile, behavior and context consumed by the
// scorer.
type Signals struct {
	// CategoryWeights maps lower-cased category to interest weight; values sum to 1
	// or the map is empty.
	CategoryWeights       map[string]float64
	CategoryLabels        map[string]string
	DesiredFeatures       []string
	FeatureLabels         map[string]string
	PriceSensitivity      float64
	IntegrationImportance float64
	IntegrationNeeds      []string
	IntegrationLabels     map[string]string
	SearchTerms           []string
	Saved                 map[string]struct{}
	Viewed                map[string]struct{}
	Compliance            []string
	ExperienceLevel       ExperienceLevel
	TeamSize              int
}

// NormalizeSignals converts profile, behavior and current tools into Signals. A nil
// profile yields medium price sensitivity and no declared integration needs.
func NormalizeSignals(profile *UserProfile, behavior UserBehavior, currentTools []string) Signals {
	var p UserProfile
	if profile != nil {
		p = *profile
	}

	features, featureLabels := uniqueLower(p.FeatureNeeds, behavior.FeaturePreferences)
	needs, needLabels := uniqueLower(p.IntegrationNeeds, currentTools)
	compliance, _ := uniqueLower(p.ComplianceRequirements)

	sig := Signals{
		DesiredFeatures:   features,
		FeatureLabels:     featureLabels,
		PriceSensitivity:  effectivePriceSensitivity(profile, behavior.PriceSensitivity),
		IntegrationNeeds:  needs,
		IntegrationLabels: needLabels,
		SearchTerms:       keywords(strings.Join(behavior.SearchTerms, " ")),
		Saved:             toSet(behavior.SavedToolIDs),
		Viewed:            toSet(behavior.ViewedToolIDs),
		Compliance:        compliance,
		ExperienceLevel:   p.ExperienceLevel,
		TeamSize:          p.TeamSize,
	}
	sig.CategoryWeights, sig.CategoryLabels = normalizeCategoryMinutes(behavior.CategoryMinutes)
	sig.IntegrationImportance = effectiveIntegrationImportance(behavior.IntegrationImportance, len(p.IntegrationNeeds) > 0)
	return sig
}

// normalizeCategoryMinutes returns weights keyed by lower-cased category and the
// first spelling seen for each key.
func normalizeCategoryMinutes(minutes map[string]float64) (map[string]float64, map[string]string) {
	out := make(map[string]float64, len(minutes))
	labels := make(map[string]string, len(minutes))
	total := 0.0
	for _, raw := range sortedKeys(minutes) {
		v := minutes[raw]
		key := NormalizeName(raw)
		if key == "" || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if _, ok := labels[key]; !ok {
			labels[key] = strings.Join(strings.Fields(raw), " ")
		}
		out[key] += v
		total += v
	}
	if total <= 0 || math.IsInf(total, 0) {
		return map[string]float64{}, map[string]string{}
	}
	for k, v := range out {
		out[k] = v / total
	}
	return out, labels
}

func effectivePriceSensitivity(profile *UserProfile, observed *float64) float64 {
	if observed != nil {
		return clamp01(*observed)
	}
	if profile == nil {
		return defaultPriceSensitivity
	}
	switch BudgetRange(strings.ToLower(strings.TrimSpace(string(profile.BudgetRange)))) {
	case BudgetFree:
		return 0.95
	case BudgetLow:
		return 0.8
	case BudgetMedium:
		return 0.5
	case BudgetHigh:
		return 0.3
	case BudgetEnterprise:
		return 0.15
	default:
		return defaultPriceSensitivity
	}
}

func effectiveIntegrationImportance(observed *float64, declared bool) float64 {
	if observed != nil {
		return clamp01(*observed)
	}
	if declared {
		return declaredIntegrationImportance
	}
	return defaultIntegrationImportance
}
