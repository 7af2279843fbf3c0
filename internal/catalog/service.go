package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolfinder-backend/internal/recommendations/engine"
)

// ErrInvalidSubmission is returned when a submission is missing required fields.
var ErrInvalidSubmission = errors.New("invalid submission")

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Tools lists the catalog, optionally restricted to one category.
func (s *Service) Tools(ctx context.Context, category string) ([]Tool, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("catalog service not configured")
	}
	if category = strings.TrimSpace(category); category != "" {
		return s.Repo.ListByCategory(ctx, category)
	}
	return s.Repo.List(ctx)
}

// AvailableTools implements the catalog collaborator used by recommendations.
func (s *Service) AvailableTools(ctx context.Context) ([]Tool, error) {
	return s.Tools(ctx, "")
}

func (s *Service) Tool(ctx context.Context, id string) (Tool, error) {
	if s == nil || s.Repo == nil {
		return Tool{}, errors.New("catalog service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return Tool{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]CategoryStat, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("catalog service not configured")
	}
	stats, err := s.Repo.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []CategoryStat{}
	}
	return stats, nil
}

// SubmissionInput is the user-provided part of a submission.
type SubmissionInput struct {
	Name         string `json:"name"`
	Website      string `json:"website"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	PricingModel string `json:"pricingModel"`
}

// Submit stores a pending submission on behalf of userID.
func (s *Service) Submit(ctx context.Context, userID string, in SubmissionInput) (Submission, error) {
	if s == nil || s.Repo == nil {
		return Submission{}, errors.New("catalog service not configured")
	}
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" {
		return Submission{}, fmt.Errorf("%w: name and category are required", ErrInvalidSubmission)
	}
	pricing := strings.TrimSpace(in.PricingModel)
	if pricing != "" {
		model, ok := engine.ParsePricingModel(pricing)
		if !ok {
			return Submission{}, fmt.Errorf("%w: unknown pricing model %q", ErrInvalidSubmission, pricing)
		}
		pricing = string(model)
	}
	website := strings.TrimSpace(in.Website)
	if website != "" && !strings.HasPrefix(website, "https://") && !strings.HasPrefix(website, "http://") {
		return Submission{}, fmt.Errorf("%w: website must be an http(s) URL", ErrInvalidSubmission)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	sub := Submission{
		ID:           uuid.NewString(),
		Name:         name,
		Website:      website,
		Category:     category,
		Description:  strings.TrimSpace(in.Description),
		PricingModel: pricing,
		SubmittedBy:  userID,
		Status:       SubmissionPending,
		CreatedAt:    now().UTC(),
	}
	if err := s.Repo.CreateSubmission(ctx, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}
