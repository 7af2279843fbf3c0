package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Sub-score weights. They sum to 1 so the weighted sum stays in [0,1] before the
// intent and affinity adjustments.
const (
	weightFeature     = 0.30
	weightPrice       = 0.25
	weightIntegration = 0.15
	weightQuality     = 0.12
	weightCategory    = 0.08
	weightQuery       = 0.10

	maxIntentAdjustment = 0.05
	savedAffinity       = 0.02
	viewedAffinity      = 0.01

	// neutral is used when the signal behind a sub-score is absent.
	neutral = 0.5

	// priceScale is the listed price at which a fully sensitive user halves price fit.
	priceScale = 25.0
	// unknownMonthlyPrice stands in for paid tools without a listed price.
	unknownMonthlyPrice = 20.0
	freemiumFloor       = 0.4

	// queryPriceSensitivity is the floor applied when the query asks for cheap tools.
	queryPriceSensitivity = 0.8

	reviewSaturation = 5.0 // log10 of the review count at which volume stops counting
)

// Scored is a candidate with its score, sub-scores and rationale.
type Scored struct {
	Candidate
	Score     float64
	Breakdown Breakdown
	Rationale string
}

// MonthlyCost converts a pricing descriptor into a per-seat monthly cost. known is
// false when a paid tool has no listed price and the default was used.
func MonthlyCost(p Pricing) (cost float64, known bool) {
	if p.Model == PricingFree {
		return 0, true
	}
	if p.StartingPrice == nil {
		if p.Model == PricingFreemium {
			return 0, true
		}
		return unknownMonthlyPrice, false
	}
	price := *p.StartingPrice
	if p.Model == PricingOneTime || isAnnual(p.BillingPeriod) {
		return price / 12, true
	}
	return price, true
}

func isAnnual(period string) bool {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "year", "yearly", "annual", "annually", "per year", "/year":
		return true
	default:
		return false
	}
}

// scorer holds per-request inputs shared by every candidate.
type scorer struct {
	sig       Signals
	interp    Interpretation
	rc        RecommendationContext
	replaced  *ToolRecord
	goalTerms []string
	costPain  bool
}

func newScorer(sig Signals, interp Interpretation, rc RecommendationContext, replaced *ToolRecord) scorer {
	s := scorer{sig: sig, interp: interp, rc: rc, replaced: replaced}
	s.goalTerms = keywords(strings.Join(rc.Goals, " "))
	for _, p := range rc.PainPoints {
		if mentionsCost(p) {
			s.costPain = true
			break
		}
	}
	return s
}

// priceSensitivity lifts the user's sensitivity when the query leans cheap.
func (s scorer) priceSensitivity() float64 {
	if s.interp.PricePreferred {
		return max(s.sig.PriceSensitivity, queryPriceSensitivity)
	}
	return s.sig.PriceSensitivity
}

func mentionsCost(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range []string{"cost", "expensive", "price", "pricing", "budget", "pay"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// ScoreAll scores every candidate and returns them sorted by score desc, rating
// desc, review count desc, catalog index asc.
func ScoreAll(cands []Candidate, sig Signals, interp Interpretation, rc RecommendationContext, replaced *ToolRecord) []Scored {
	s := newScorer(sig, interp, rc, replaced)
	out := make([]Scored, 0, len(cands))
	for _, c := range cands {
		out = append(out, s.score(c))
	}
	SortScored(out)
	return out
}

// SortScored orders by the ranking total order.
func SortScored(items []Scored) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Tool.Rating != b.Tool.Rating {
			return a.Tool.Rating > b.Tool.Rating
		}
		if a.Tool.ReviewCount != b.Tool.ReviewCount {
			return a.Tool.ReviewCount > b.Tool.ReviewCount
		}
		return a.Index < b.Index
	})
}

// Score scores one candidate.
func Score(c Candidate, sig Signals, interp Interpretation, rc RecommendationContext, replaced *ToolRecord) Scored {
	return newScorer(sig, interp, rc, replaced).score(c)
}

func (s scorer) score(c Candidate) Scored {
	h := newHaystack(c.Tool)
	matched := s.matchedFeatures(h)

	b := Breakdown{
		Feature:     s.featureMatch(matched),
		Category:    s.categoryMatch(c.Tool),
		Price:       PriceFit(c.Tool.Pricing, s.priceSensitivity()),
		Integration: s.integrationFit(c.Tool),
		Quality:     QualityPrior(c.Tool.Rating, c.Tool.ReviewCount),
		Query:       s.queryRelevance(h),
		Intent:      s.intentAdjustment(c.Tool, h),
		Affinity:    s.affinity(c.Tool),
	}

	total := weightFeature*b.Feature +
		weightPrice*b.Price +
		weightIntegration*b.Integration +
		weightQuality*b.Quality +
		weightCategory*b.Category +
		weightQuery*b.Query +
		b.Intent + b.Affinity

	return Scored{
		Candidate: c,
		Score:     clamp01(total),
		Breakdown: b,
		Rationale: s.rationale(c.Tool, b, matched),
	}
}

func (s scorer) matchedFeatures(h haystack) []string {
	var out []string
	for _, f := range s.sig.DesiredFeatures {
		if h.hasFeature(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s scorer) featureMatch(matched []string) float64 {
	if len(s.sig.DesiredFeatures) == 0 {
		return neutral
	}
	return float64(len(matched)) / float64(len(s.sig.DesiredFeatures))
}

// categoryMatch scales the category interest weight by the strongest interest so the
// favourite category scores 1.
func (s scorer) categoryMatch(t ToolRecord) float64 {
	if len(s.sig.CategoryWeights) == 0 {
		return neutral
	}
	maxW := 0.0
	for _, w := range s.sig.CategoryWeights {
		maxW = math.Max(maxW, w)
	}
	if maxW == 0 {
		return neutral
	}
	return clamp01(s.sig.CategoryWeights[NormalizeName(t.Category)] / maxW)
}

// PriceFit is 1 for free or zero-priced tools and otherwise decreases in both the
// listed starting price and the sensitivity. The listed price is used as is, so a
// one-time licence is weighed at its full sticker price.
func PriceFit(p Pricing, sensitivity float64) float64 {
	price := listedPrice(p)
	if price <= 0 {
		return 1
	}
	base := 1 / (1 + price*clamp01(sensitivity)/priceScale)
	if p.Model == PricingFreemium {
		return freemiumFloor + (1-freemiumFloor)*base
	}
	return base
}

func listedPrice(p Pricing) float64 {
	switch {
	case p.Model == PricingFree:
		return 0
	case p.StartingPrice != nil:
		return *p.StartingPrice
	case p.Model == PricingFreemium:
		return 0
	default:
		return unknownMonthlyPrice
	}
}

func (s scorer) integrationFit(t ToolRecord) float64 {
	if len(s.sig.IntegrationNeeds) == 0 {
		return neutral
	}
	return neutral + neutral*overlapFraction(s.sig.IntegrationNeeds, t.Integrations)*s.sig.IntegrationImportance
}

func overlapFraction(needs []string, have []string) float64 {
	if len(needs) == 0 {
		return 0
	}
	set := toSet(have)
	n := 0
	for _, need := range needs {
		if _, ok := set[NormalizeName(need)]; ok {
			n++
		}
	}
	return float64(n) / float64(len(needs))
}

func sharedIntegrations(needs []string, have []string) []string {
	set := toSet(have)
	var out []string
	for _, need := range needs {
		if _, ok := set[NormalizeName(need)]; ok {
			out = append(out, need)
		}
	}
	return out
}

// QualityPrior rewards rating and, up to a saturation point, review volume.
func QualityPrior(rating float64, reviews int) float64 {
	return clamp01(rating/5) * (0.5 + 0.5*reviewVolume(reviews))
}

func reviewVolume(reviews int) float64 {
	if reviews <= 0 {
		return 0
	}
	return math.Min(1, math.Log10(1+float64(reviews))/reviewSaturation)
}

func (s scorer) queryRelevance(h haystack) float64 {
	kw := s.interp.Keywords
	if len(kw) == 0 && len(s.interp.Expansions) == 0 {
		kw = s.sig.SearchTerms
	}
	kwFrac, kwOK := matchFraction(h, kw)
	expFrac, expOK := matchFraction(h, s.interp.Expansions)
	switch {
	case kwOK && expOK:
		return 0.6*kwFrac + 0.4*expFrac
	case kwOK:
		return kwFrac
	case expOK:
		return expFrac
	default:
		return neutral
	}
}

func matchFraction(h haystack, terms []string) (float64, bool) {
	if len(terms) == 0 {
		return 0, false
	}
	n := 0
	for _, t := range terms {
		if h.mentions(t) {
			n++
		}
	}
	return float64(n) / float64(len(terms)), true
}

func (s scorer) intentAdjustment(t ToolRecord, h haystack) float64 {
	adj := 0.0
	monthly, _ := MonthlyCost(t.Pricing)
	free := monthly == 0

	switch s.rc.Intent {
	case IntentReplaceExisting:
		if s.replaced != nil {
			if NormalizeName(s.replaced.Category) == NormalizeName(t.Category) {
				adj += 0.02
			}
			replacedMonthly, _ := MonthlyCost(s.replaced.Pricing)
			switch {
			case monthly < replacedMonthly:
				adj += 0.02
			case monthly > replacedMonthly && s.costPain:
				adj -= 0.04
			}
		}
		if s.costPain && free {
			adj += 0.02
		}
	case IntentConsolidateStack:
		shared := len(sharedIntegrations(s.sig.IntegrationNeeds, t.Integrations))
		switch {
		case shared >= 2:
			adj += 0.04
		case shared == 0 && len(s.sig.IntegrationNeeds) > 0:
			adj -= 0.02
		}
		if len(t.Features) >= 8 {
			adj += 0.01
		}
	case IntentReduceCost:
		switch {
		case t.Pricing.Model == PricingFree:
			adj += 0.05
		case free:
			adj += 0.03
		case monthly > 50:
			adj -= 0.03
		}
	case IntentDiscoverNew, "":
		if _, seen := s.sig.Viewed[NormalizeName(t.ID)]; !seen {
			adj += 0.01
		}
	}

	if len(s.goalTerms) > 0 {
		frac, _ := matchFraction(h, s.goalTerms)
		adj += 0.02 * frac
	}
	return math.Max(-maxIntentAdjustment, math.Min(maxIntentAdjustment, adj))
}

func (s scorer) affinity(t ToolRecord) float64 {
	id := NormalizeName(t.ID)
	if _, ok := s.sig.Saved[id]; ok {
		return savedAffinity
	}
	if _, ok := s.sig.Viewed[id]; ok {
		return viewedAffinity
	}
	return 0
}

type contribution struct {
	value  float64
	phrase string
}

// rationale names the two largest weighted contributions among signals that were
// actually present.
func (s scorer) rationale(t ToolRecord, b Breakdown, matched []string) string {
	var parts []contribution
	if len(matched) > 0 {
		labels := make([]string, 0, len(matched))
		for _, m := range matched {
			labels = append(labels, s.label(m, s.sig.FeatureLabels))
		}
		strength := "partial"
		if b.Feature >= 1 {
			strength = "strong"
		}
		parts = append(parts, contribution{weightFeature * b.Feature, fmt.Sprintf("%s %s feature match", strength, joinLimited(labels, 2))})
	}
	parts = append(parts, contribution{weightPrice * b.Price, pricePhrase(t.Pricing, b.Price)})
	if shared := sharedIntegrations(s.sig.IntegrationNeeds, t.Integrations); len(shared) > 0 {
		labels := make([]string, 0, len(shared))
		for _, m := range shared {
			labels = append(labels, s.label(m, s.sig.IntegrationLabels))
		}
		parts = append(parts, contribution{weightIntegration * b.Integration, "integrates with " + joinLimited(labels, 3)})
	}
	if t.ReviewCount > 0 {
		parts = append(parts, contribution{weightQuality * b.Quality, fmt.Sprintf("rated %.1f from %s reviews", t.Rating, groupThousands(t.ReviewCount))})
	}
	if len(s.sig.CategoryWeights) > 0 && b.Category > 0 {
		parts = append(parts, contribution{weightCategory * b.Category, "fits your interest in " + t.Category})
	}
	if s.interp.Query != "" && b.Query > 0 {
		parts = append(parts, contribution{weightQuery * b.Query, fmt.Sprintf("relevant to %q", s.interp.Query)})
	}

	sort.SliceStable(parts, func(i, j int) bool { return parts[i].value > parts[j].value })
	if len(parts) > 2 {
		parts = parts[:2]
	}
	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		phrases = append(phrases, p.phrase)
	}
	return strings.Join(phrases, " and ")
}

func (s scorer) label(key string, labels map[string]string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func pricePhrase(p Pricing, fit float64) string {
	price := listedPrice(p)
	switch {
	case p.Model == PricingFree || (price == 0 && p.Model != PricingFreemium):
		return "free pricing"
	case p.Model == PricingFreemium && price == 0:
		return "a free tier"
	case p.Model == PricingFreemium:
		return fmt.Sprintf("a free tier with paid plans from $%.0f", price)
	case p.StartingPrice == nil:
		return "unlisted pricing"
	case p.Model == PricingOneTime:
		return fmt.Sprintf("a one-time price of $%.0f", price)
	case fit >= 0.6:
		return fmt.Sprintf("affordable pricing from $%.0f", price)
	default:
		return fmt.Sprintf("premium pricing from $%.0f", price)
	}
}

func joinLimited(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
