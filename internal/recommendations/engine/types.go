package engine

import (
	"strings"
	"time"
)

// PricingModel is the closed set of catalog pricing models.
type PricingModel string

const (
	PricingFree         PricingModel = "free"
	PricingFreemium     PricingModel = "freemium"
	PricingSubscription PricingModel = "subscription"
	PricingOneTime      PricingModel = "one-time"
	PricingUsageBased   PricingModel = "usage-based"
)

// Valid reports whether p is one of the known pricing models.
func (p PricingModel) Valid() bool {
	switch p {
	case PricingFree, PricingFreemium, PricingSubscription, PricingOneTime, PricingUsageBased:
		return true
	default:
		return false
	}
}

// ParsePricingModel accepts the canonical names plus common spellings.
func ParsePricingModel(raw string) (PricingModel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "free", "open-source", "open source":
		return PricingFree, true
	case "freemium":
		return PricingFreemium, true
	case "subscription", "paid", "monthly":
		return PricingSubscription, true
	case "one-time", "one_time", "onetime", "lifetime":
		return PricingOneTime, true
	case "usage-based", "usage_based", "usage", "pay-as-you-go":
		return PricingUsageBased, true
	default:
		return "", false
	}
}

// Pricing describes how a tool is billed.
type Pricing struct {
	Model         PricingModel `json:"model" yaml:"model"`
	StartingPrice *float64     `json:"startingPrice,omitempty" yaml:"startingPrice,omitempty"`
	BillingPeriod string       `json:"billingPeriod,omitempty" yaml:"billingPeriod,omitempty"`
}

// ToolRecord is a catalog entry. The engine never mutates it.
type ToolRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Category     string    `json:"category" yaml:"category"`
	Description  string    `json:"description" yaml:"description"`
	Features     []string  `json:"features" yaml:"features"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Pricing      Pricing   `json:"pricing" yaml:"pricing"`
	Rating       float64   `json:"rating" yaml:"rating"`
	ReviewCount  int       `json:"reviewCount" yaml:"reviewCount"`
	Integrations []string  `json:"integrations" yaml:"integrations"`
	LastUpdated  time.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

// Effort is the qualitative implementation-effort label.
type Effort string

const (
	EffortSimple         Effort = "simple"
	EffortModerate       Effort = "moderate"
	EffortComplex        Effort = "complex"
	EffortExpertRequired Effort = "expert_required"
)

// Intent is the session intent carried by RecommendationContext.
type Intent string

const (
	IntentDiscoverNew      Intent = "discover_new"
	IntentReplaceExisting  Intent = "replace_existing"
	IntentConsolidateStack Intent = "consolidate_stack"
	IntentReduceCost       Intent = "reduce_cost"
)

// ParseIntent falls back to IntentDiscoverNew for unknown values.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentReplaceExisting:
		return IntentReplaceExisting
	case IntentConsolidateStack:
		return IntentConsolidateStack
	case IntentReduceCost:
		return IntentReduceCost
	default:
		return IntentDiscoverNew
	}
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

type BudgetRange string

const (
	BudgetFree       BudgetRange = "free"
	BudgetLow        BudgetRange = "low"
	BudgetMedium     BudgetRange = "medium"
	BudgetHigh       BudgetRange = "high"
	BudgetEnterprise BudgetRange = "enterprise"
)

type CompanySize string

const (
	CompanySolo       CompanySize = "solo"
	CompanySmall      CompanySize = "small"
	CompanyMedium     CompanySize = "medium"
	CompanyLarge      CompanySize = "large"
	CompanyEnterprise CompanySize = "enterprise"
)

type Timeline string

const (
	TimelineImmediate Timeline = "immediate"
	TimelineShortTerm Timeline = "short_term"
	TimelineLongTerm  Timeline = "long_term"
)

// UserProfile holds declared user attributes.
type UserProfile struct {
	CompanySize            CompanySize     `json:"companySize,omitempty" yaml:"companySize,omitempty"`
	Industry               string          `json:"industry,omitempty" yaml:"industry,omitempty"`
	TeamSize               int             `json:"teamSize,omitempty" yaml:"teamSize,omitempty"`
	ExperienceLevel        ExperienceLevel `json:"experienceLevel,omitempty" yaml:"experienceLevel,omitempty"`
	BudgetRange            BudgetRange     `json:"budgetRange,omitempty" yaml:"budgetRange,omitempty"`
	IntegrationNeeds       []string        `json:"integrationNeeds,omitempty" yaml:"integrationNeeds,omitempty"`
	FeatureNeeds           []string        `json:"featureNeeds,omitempty" yaml:"featureNeeds,omitempty"`
	ComplianceRequirements []string        `json:"complianceRequirements,omitempty" yaml:"complianceRequirements,omitempty"`
}

// UserBehavior holds observed attributes. Nil sensitivities mean "not observed".
type UserBehavior struct {
	ViewedToolIDs         []string           `json:"viewedToolIds,omitempty" yaml:"viewedToolIds,omitempty"`
	SavedToolIDs          []string           `json:"savedToolIds,omitempty" yaml:"savedToolIds,omitempty"`
	SearchTerms           []string           `json:"searchTerms,omitempty" yaml:"searchTerms,omitempty"`
	CategoryMinutes       map[string]float64 `json:"categoryMinutes,omitempty" yaml:"categoryMinutes,omitempty"`
	FeaturePreferences    []string           `json:"featurePreferences,omitempty" yaml:"featurePreferences,omitempty"`
	PriceSensitivity      *float64           `json:"priceSensitivity,omitempty" yaml:"priceSensitivity,omitempty"`
	IntegrationImportance *float64           `json:"integrationImportance,omitempty" yaml:"integrationImportance,omitempty"`
}

// RecommendationContext is the transient session intent.
type RecommendationContext struct {
	Intent        Intent   `json:"intent,omitempty" yaml:"intent,omitempty"`
	Timeline      Timeline `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Goals         []string `json:"goals,omitempty" yaml:"goals,omitempty"`
	PainPoints    []string `json:"painPoints,omitempty" yaml:"painPoints,omitempty"`
	ReplacingTool string   `json:"replacingTool,omitempty" yaml:"replacingTool,omitempty"`
}

// ROI is the projected benefit of adopting a tool.
type ROI struct {
	TimeSavings      string  `json:"timeSavings"`
	CostSavings      float64 `json:"costSavings"`
	ProductivityGain float64 `json:"productivityGain"`
	ConfidenceLevel  float64 `json:"confidenceLevel"`
}

// Breakdown exposes the normalized sub-scores behind a recommendation score.
type Breakdown struct {
	Feature     float64 `json:"feature"`
	Category    float64 `json:"category"`
	Price       float64 `json:"price"`
	Integration float64 `json:"integration"`
	Quality     float64 `json:"quality"`
	Query       float64 `json:"query"`
	Intent      float64 `json:"intent"`
	Affinity    float64 `json:"affinity"`
}

// RecommendedTool is one annotated entry of the ranked output.
type RecommendedTool struct {
	Tool                 ToolRecord `json:"tool"`
	RecommendationScore  float64    `json:"recommendationScore"`
	Rationale            string     `json:"rationale"`
	ImplementationEffort Effort     `json:"implementationEffort"`
	ExpectedROI          ROI        `json:"expectedRoi"`
	Breakdown            Breakdown  `json:"breakdown"`
}

// Diagnostic records a catalog record dropped before scoring.
type Diagnostic struct {
	ToolID   string `json:"toolId"`
	ToolName string `json:"toolName"`
	Reason   string `json:"reason"`
}
