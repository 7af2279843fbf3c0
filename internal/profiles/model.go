package profiles

import (
	"time"

	"toolfinder-backend/internal/recommendations/engine"
)

// Identity is the account information supplied by the OAuth login.
type Identity struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	PictureURL string `json:"pictureUrl"`
}

// Profile is the stored per-user state the recommendation flow falls back to.
type Profile struct {
	Identity
	Profile      engine.UserProfile  `json:"profile"`
	Behavior     engine.UserBehavior `json:"behavior"`
	CurrentTools []string            `json:"currentTools"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// EventType is the kind of interaction recorded against a profile.
type EventType string

const (
	EventViewed EventType = "viewed"
	EventSaved  EventType = "saved"
	EventSearch EventType = "search"
)

// Event is one observed interaction.
type Event struct {
	Type     EventType `json:"type"`
	ToolID   string    `json:"toolId,omitempty"`
	Category string    `json:"category,omitempty"`
	Term     string    `json:"term,omitempty"`
	Minutes  float64   `json:"minutes,omitempty"`
}
