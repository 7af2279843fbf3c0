package catalog

import (
	"time"

	"toolfinder-backend/internal/recommendations/engine"
)

// Tool is a catalog entry as the ranking engine consumes it.
type Tool = engine.ToolRecord

const (
	SubmissionPending = "pending"
)

// Submission is a user-proposed catalog entry awaiting moderation.
type Submission struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Website      string    `json:"website,omitempty"`
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	PricingModel string    `json:"pricingModel,omitempty"`
	SubmittedBy  string    `json:"submittedBy,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CategoryStat summarizes one catalog category.
type CategoryStat struct {
	Category      string  `json:"category" db:"category"`
	ToolCount     int     `json:"toolCount" db:"tool_count"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
}
