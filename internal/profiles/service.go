package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"toolfinder-backend/internal/recommendations/engine"
)

// ErrInvalidProfile is returned when an update carries values outside the known enums.
var ErrInvalidProfile = errors.New("invalid profile")

// GuestPrefix marks user ids derived from an anonymous guest id.
const GuestPrefix = "guest:"

const (
	maxTrackedTools = 50
	maxSearchTerms  = 20
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the identity from OAuth so the stored profile survives re-login.
func (s *Service) UpsertFromAuth(ctx context.Context, id Identity) error {
	if s == nil || s.Repo == nil {
		return errors.New("profiles service not configured")
	}
	if strings.TrimSpace(id.UserID) == "" || strings.TrimSpace(id.Email) == "" {
		return errors.New("user id and email are required")
	}
	return s.Repo.UpsertIdentity(ctx, id)
}

// Get returns the stored profile, or an empty one for users who never saved any.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{Identity: Identity{UserID: userID}, CurrentTools: []string{}}, nil
	}
	return p, err
}

// Update is the editable part of a profile.
type Update struct {
	Profile      engine.UserProfile   `json:"profile"`
	Behavior     *engine.UserBehavior `json:"behavior,omitempty"`
	CurrentTools []string             `json:"currentTools"`
}

// Update validates and stores the editable fields. Behavior is only replaced when supplied.
func (s *Service) Update(ctx context.Context, userID string, in Update) (Profile, error) {
	if err := validateProfile(in.Profile); err != nil {
		return Profile{}, err
	}
	if in.Behavior != nil {
		if err := validateBehavior(*in.Behavior); err != nil {
			return Profile{}, err
		}
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	p.Profile = in.Profile
	if in.Behavior != nil {
		p.Behavior = *in.Behavior
	}
	p.CurrentTools = cleanList(in.CurrentTools)
	if err := s.Repo.Save(ctx, p); err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, userID)
}

// RecordEvent folds one interaction into the stored behavior.
func (s *Service) RecordEvent(ctx context.Context, userID string, ev Event) (engine.UserBehavior, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return engine.UserBehavior{}, err
	}
	b := &p.Behavior
	switch ev.Type {
	case EventViewed:
		if strings.TrimSpace(ev.ToolID) == "" {
			return engine.UserBehavior{}, fmt.Errorf("%w: toolId is required", ErrInvalidProfile)
		}
		b.ViewedToolIDs = pushRecent(b.ViewedToolIDs, ev.ToolID, maxTrackedTools)
	case EventSaved:
		if strings.TrimSpace(ev.ToolID) == "" {
			return engine.UserBehavior{}, fmt.Errorf("%w: toolId is required", ErrInvalidProfile)
		}
		b.SavedToolIDs = pushRecent(b.SavedToolIDs, ev.ToolID, maxTrackedTools)
	case EventSearch:
		if strings.TrimSpace(ev.Term) == "" {
			return engine.UserBehavior{}, fmt.Errorf("%w: term is required", ErrInvalidProfile)
		}
		b.SearchTerms = pushRecent(b.SearchTerms, ev.Term, maxSearchTerms)
	default:
		return engine.UserBehavior{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidProfile, ev.Type)
	}
	if category := strings.TrimSpace(ev.Category); category != "" && ev.Minutes > 0 {
		if b.CategoryMinutes == nil {
			b.CategoryMinutes = map[string]float64{}
		}
		b.CategoryMinutes[category] += ev.Minutes
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return engine.UserBehavior{}, err
	}
	return p.Behavior, nil
}

// AdoptGuest copies a guest's stored preferences onto userID, unless userID
// already has preferences of its own. It reports whether anything was copied.
func (s *Service) AdoptGuest(ctx context.Context, guestID, userID string) (bool, error) {
	if s == nil || s.Repo == nil {
		return false, errors.New("profiles service not configured")
	}
	if !strings.HasPrefix(guestID, GuestPrefix) || strings.HasPrefix(userID, GuestPrefix) {
		return false, fmt.Errorf("adopt %q into %q: %w", guestID, userID, ErrInvalidProfile)
	}
	guest, err := s.Repo.Get(ctx, guestID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if hasPreferences(p) || !hasPreferences(guest) {
		return false, nil
	}
	p.Profile = guest.Profile
	p.Behavior = guest.Behavior
	p.CurrentTools = guest.CurrentTools
	if err := s.Repo.Save(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func hasPreferences(p Profile) bool {
	up := p.Profile
	return len(p.CurrentTools) > 0 ||
		up.TeamSize > 0 || up.CompanySize != "" || up.Industry != "" ||
		up.ExperienceLevel != "" || up.BudgetRange != "" ||
		len(up.IntegrationNeeds) > 0 || len(up.FeatureNeeds) > 0 || len(up.ComplianceRequirements) > 0 ||
		len(p.Behavior.SavedToolIDs) > 0 || len(p.Behavior.ViewedToolIDs) > 0
}

// Lookup implements the session collaborator of the recommendation flow.
// found is false when the user never stored a profile.
func (s *Service) Lookup(ctx context.Context, userID string) (profile *engine.UserProfile, behavior engine.UserBehavior, currentTools []string, found bool, err error) {
	if s == nil || s.Repo == nil || strings.TrimSpace(userID) == "" {
		return nil, engine.UserBehavior{}, nil, false, nil
	}
	p, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, engine.UserBehavior{}, nil, false, nil
		}
		return nil, engine.UserBehavior{}, nil, false, err
	}
	up := p.Profile
	return &up, p.Behavior, p.CurrentTools, true, nil
}

func validateProfile(p engine.UserProfile) error {
	switch p.ExperienceLevel {
	case "", engine.ExperienceBeginner, engine.ExperienceIntermediate, engine.ExperienceAdvanced, engine.ExperienceExpert:
	default:
		return fmt.Errorf("%w: unknown experience level %q", ErrInvalidProfile, p.ExperienceLevel)
	}
	switch p.BudgetRange {
	case "", engine.BudgetFree, engine.BudgetLow, engine.BudgetMedium, engine.BudgetHigh, engine.BudgetEnterprise:
	default:
		return fmt.Errorf("%w: unknown budget range %q", ErrInvalidProfile, p.BudgetRange)
	}
	switch p.CompanySize {
	case "", engine.CompanySolo, engine.CompanySmall, engine.CompanyMedium, engine.CompanyLarge, engine.CompanyEnterprise:
	default:
		return fmt.Errorf("%w: unknown company size %q", ErrInvalidProfile, p.CompanySize)
	}
	if p.TeamSize < 0 {
		return fmt.Errorf("%w: team size must not be negative", ErrInvalidProfile)
	}
	return nil
}

func validateBehavior(b engine.UserBehavior) error {
	if b.PriceSensitivity != nil && (*b.PriceSensitivity < 0 || *b.PriceSensitivity > 1) {
		return fmt.Errorf("%w: priceSensitivity must be within [0,1]", ErrInvalidProfile)
	}
	if b.IntegrationImportance != nil && (*b.IntegrationImportance < 0 || *b.IntegrationImportance > 1) {
		return fmt.Errorf("%w: integrationImportance must be within [0,1]", ErrInvalidProfile)
	}
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// pushRecent moves value to the end of list, dropping the oldest entries beyond limit.
func pushRecent(list []string, value string, limit int) []string {
	value = strings.TrimSpace(value)
	out := make([]string, 0, len(list)+1)
	for _, v := range list {
		if !strings.EqualFold(v, value) {
			out = append(out, v)
		}
	}
	out = append(out, value)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
