package engine

import (
	"fmt"
	"math"
	"strconv"
)

const (
	weeksPerMonth  = 4.33
	defaultHourly  = 50.0
	defaultHours   = 1.5
	minConfidence  = 0.05
	manyIntegrates = 5
	mostIntegrates = 10
	largeTeam      = 50
)

// hoursSavedPerUser is the typical weekly time a tool in the category saves one user.
var hoursSavedPerUser = map[string]float64{
	"development":        3,
	"productivity":       2.5,
	"ai":                 4,
	"project management": 2,
	"communication":      2,
	"design":             2.5,
	"analytics":          2,
	"marketing":          2,
	"sales":              2,
	"customer support":   2.5,
	"finance":            1.5,
	"security":           1,
}

// categoryComplexity is the base effort contribution of a category.
var categoryComplexity = map[string]int{
	"security":           2,
	"development":        1,
	"analytics":          1,
	"design":             1,
	"sales":              1,
	"finance":            1,
	"ai":                 1,
	"productivity":       0,
	"communication":      0,
	"project management": 0,
	"marketing":          0,
	"customer support":   0,
}

// EstimateEffort assigns the implementation-effort label from category, integration
// count, experience level and team size.
func EstimateEffort(t ToolRecord, profile *UserProfile) Effort {
	points, ok := categoryComplexity[NormalizeName(t.Category)]
	if !ok {
		points = 1
	}
	switch n := len(t.Integrations); {
	case n >= mostIntegrates:
		points += 2
	case n >= manyIntegrates:
		points++
	}
	if profile != nil {
		switch profile.ExperienceLevel {
		case ExperienceBeginner:
			points += 2
		case ExperienceIntermediate:
			points++
		case ExperienceAdvanced, ExperienceExpert:
		default:
			points++
		}
		if profile.TeamSize > largeTeam {
			points++
		}
	} else {
		points++
	}

	switch {
	case points <= 1:
		return EffortSimple
	case points <= 3:
		return EffortModerate
	case points == 4:
		return EffortComplex
	default:
		return EffortExpertRequired
	}
}

func effortFactor(e Effort) float64 {
	switch e {
	case EffortSimple:
		return 1
	case EffortModerate:
		return 0.9
	case EffortComplex:
		return 0.75
	case EffortExpertRequired:
		return 0.6
	default:
		return 0.9
	}
}

func effortPenalty(e Effort) float64 {
	switch e {
	case EffortSimple:
		return 0
	case EffortModerate:
		return 0.05
	case EffortComplex:
		return 0.1
	case EffortExpertRequired:
		return 0.2
	default:
		return 0.05
	}
}

func hourlyRate(size CompanySize) float64 {
	switch size {
	case CompanySolo:
		return 40
	case CompanySmall:
		return 50
	case CompanyMedium:
		return 60
	case CompanyLarge:
		return 75
	case CompanyEnterprise:
		return 90
	default:
		return defaultHourly
	}
}

func timelineAdjustment(t Timeline) float64 {
	switch t {
	case TimelineImmediate:
		return -0.05
	case TimelineShortTerm:
		return 0
	case TimelineLongTerm:
		return 0.05
	default:
		return 0
	}
}

// Estimate attaches effort and ROI to each scored item. Order and length are
// preserved.
func Estimate(items []Scored, profile *UserProfile, rc RecommendationContext, replaced *ToolRecord) []RecommendedTool {
	var p UserProfile
	if profile != nil {
		p = *profile
	}
	seats := max(1, p.TeamSize)
	rate := hourlyRate(p.CompanySize)

	replacedMonthly := 0.0
	if replaced != nil {
		m, _ := MonthlyCost(replaced.Pricing)
		replacedMonthly = m * float64(seats)
	}

	out := make([]RecommendedTool, 0, len(items))
	for _, it := range items {
		effort := EstimateEffort(it.Tool, profile)
		out = append(out, RecommendedTool{
			Tool:                 it.Tool,
			RecommendationScore:  it.Score,
			Rationale:            it.Rationale,
			ImplementationEffort: effort,
			ExpectedROI:          estimateROI(it, effort, seats, rate, replacedMonthly, rc.Timeline),
			Breakdown:            it.Breakdown,
		})
	}
	return out
}

func estimateROI(it Scored, effort Effort, seats int, rate, replacedMonthly float64, timeline Timeline) ROI {
	perUser, ok := hoursSavedPerUser[NormalizeName(it.Tool.Category)]
	if !ok {
		perUser = defaultHours
	}
	hours := math.Round(perUser*float64(seats)*effortFactor(effort)*10) / 10

	statusQuo := hours*weeksPerMonth*rate + replacedMonthly
	monthly, _ := MonthlyCost(it.Tool.Pricing)
	savings := math.Max(0, statusQuo-monthly*float64(seats))

	quality := QualityPrior(it.Tool.Rating, it.Tool.ReviewCount)
	gain := clamp01(0.05 + 0.5*quality + 0.25*it.Score - effortPenalty(effort))
	confidence := 0.3 + 0.4*clamp01(it.Tool.Rating/5) + 0.3*reviewVolume(it.Tool.ReviewCount) -
		effortPenalty(effort) + timelineAdjustment(timeline)

	return ROI{
		TimeSavings:      FormatHours(hours),
		CostSavings:      math.Round(savings*100) / 100,
		ProductivityGain: math.Round(gain*100) / 100,
		ConfidenceLevel:  math.Max(minConfidence, math.Min(1, math.Round(confidence*100)/100)),
	}
}

// FormatHours renders the "<N> hours/week" form.
func FormatHours(h float64) string {
	return fmt.Sprintf("%s hours/week", strconv.FormatFloat(h, 'f', -1, 64))
}
