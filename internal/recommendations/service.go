package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"toolfinder-backend/internal/recommendations/engine"
	"toolfinder-backend/internal/shared/metrics"
	"toolfinder-backend/internal/shared/telemetry"
)

// Catalog supplies the tools to rank.
type Catalog interface {
	AvailableTools(ctx context.Context) ([]engine.ToolRecord, error)
}

// Sessions supplies the stored profile of the caller.
type Sessions interface {
	Lookup(ctx context.Context, userID string) (profile *engine.UserProfile, behavior engine.UserBehavior, currentTools []string, found bool, err error)
}

// Service glues the catalog and stored profiles to the ranking engine.
type Service struct {
	Engine    *engine.Engine
	Catalog   Catalog
	Sessions  Sessions
	Explainer *Explainer
}

// Recommend ranks the catalog for userID.
func (s *Service) Recommend(ctx context.Context, userID string, in RecommendRequest) (RecommendResponse, error) {
	start := time.Now()
	metrics.IncRecommendationRequested()
	defer func() { metrics.ObserveRecommendationDurationMs(metrics.SinceMillis(start)) }()

	req, source, err := s.buildRequest(ctx, userID, in)
	if err != nil {
		metrics.IncRecommendationFailed(metrics.StageRequest)
		return RecommendResponse{}, err
	}
	res, err := s.Engine.Recommend(ctx, req)
	if err != nil {
		metrics.IncRecommendationFailed(metrics.StageEngine)
		if errors.Is(err, engine.ErrInvalidLimit) || errors.Is(err, engine.ErrInvalidDiversityCap) {
			return RecommendResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return RecommendResponse{}, err
	}
	s.observe(userID, in.Query, res)

	return RecommendResponse{
		Recommendations: res.Recommendations,
		Insights:        res.Insights,
		Diagnostics:     res.Diagnostics,
		ExpandedTerms:   res.Interpretation.Terms(),
		Interpretation:  res.Interpretation,
		ProfileSource:   source,
	}, nil
}

// Explain ranks as Recommend does and explains the entry for in.ToolID.
func (s *Service) Explain(ctx context.Context, userID string, in ExplainRequest) (ExplainResponse, error) {
	toolID := strings.TrimSpace(in.ToolID)
	if toolID == "" {
		return ExplainResponse{}, fmt.Errorf("%w: toolId is required", ErrInvalidRequest)
	}
	rr := in.RecommendRequest
	rr.Limit = engine.MaxLimit
	req, _, err := s.buildRequest(ctx, userID, rr)
	if err != nil {
		return ExplainResponse{}, err
	}
	res, err := s.Engine.Recommend(ctx, req)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidLimit) || errors.Is(err, engine.ErrInvalidDiversityCap) {
			return ExplainResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return ExplainResponse{}, err
	}
	for _, rec := range res.Recommendations {
		if rec.Tool.ID == toolID {
			return s.Explainer.Explain(ctx, rec, req.Profile), nil
		}
	}
	return ExplainResponse{}, ErrToolNotRanked
}

func (s *Service) buildRequest(ctx context.Context, userID string, in RecommendRequest) (engine.Request, string, error) {
	if s == nil || s.Engine == nil || s.Catalog == nil {
		return engine.Request{}, "", errors.New("recommendations service not configured")
	}
	filters, err := in.filters()
	if err != nil {
		return engine.Request{}, "", err
	}
	tools, err := s.Catalog.AvailableTools(ctx)
	if err != nil {
		return engine.Request{}, "", fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	req := engine.Request{
		Profile:        in.Profile,
		CurrentTools:   in.CurrentTools,
		Context:        in.Context,
		AvailableTools: tools,
		Limit:          in.Limit,
		Query:          in.Query,
		Filters:        filters,
		DiversityCap:   in.DiversityCap,
	}
	req.Context.Intent = engine.ParseIntent(string(in.Context.Intent))
	if in.Behavior != nil {
		req.Behavior = *in.Behavior
	}

	source := ProfileNone
	if in.Profile != nil {
		source = ProfileFromRequest
	}
	if s.Sessions != nil && (in.Profile == nil || in.Behavior == nil || in.CurrentTools == nil) {
		profile, behavior, current, found, err := s.Sessions.Lookup(ctx, userID)
		if err != nil {
			telemetry.Warn("recommendations.profile_lookup_failed", map[string]any{"user_id": userID, "error": err})
		} else if found {
			if req.Profile == nil {
				req.Profile = profile
				source = ProfileFromStore
			}
			if in.Behavior == nil {
				req.Behavior = behavior
			}
			if in.CurrentTools == nil {
				req.CurrentTools = current
			}
		}
	}
	return req, source, nil
}

func (s *Service) observe(userID, query string, res engine.Result) {
	if len(res.Recommendations) == 0 {
		metrics.IncRecommendationEmpty()
	}
	if strings.TrimSpace(query) != "" && !res.Interpretation.Expanded {
		metrics.IncExpansionFallback()
		telemetry.Info("recommendations.expansion_fallback", map[string]any{
			"user_id": userID,
			"reason":  res.Interpretation.Fallback,
		})
	}
	if n := len(res.Diagnostics); n > 0 {
		metrics.AddCatalogDiagnostics(n)
		ids := make([]string, 0, min(n, 5))
		for _, d := range res.Diagnostics[:min(n, 5)] {
			ids = append(ids, d.ToolID+": "+d.Reason)
		}
		telemetry.Warn("recommendations.catalog_diagnostics", map[string]any{
			"count":  n,
			"sample": ids,
		})
	}
}
