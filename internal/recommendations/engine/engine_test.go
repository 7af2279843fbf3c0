package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowBudgetRequest() Request {
	return Request{
		Profile:        &UserProfile{BudgetRange: BudgetLow},
		Behavior:       UserBehavior{PriceSensitivity: f64(0.9)},
		AvailableTools: editorCatalog(),
	}
}

func TestRecommend_EditorScenario(t *testing.T) {
	t.Parallel()

	res, err := New(nil, Options{}).Recommend(context.Background(), lowBudgetRequest())
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 3)

	got := names(res.Recommendations)
	assert.Equal(t, "VS Code", got[0])
	assert.Equal(t, "Sublime Text", got[2])
}

func TestRecommend_EditorScenarioWithFeatureNeed(t *testing.T) {
	t.Parallel()

	req := lowBudgetRequest()
	req.Profile.FeatureNeeds = []string{"TypeScript"}
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"VS Code", "WebStorm", "Sublime Text"}, names(res.Recommendations))
	assert.Equal(t, "strong TypeScript feature match and free pricing", res.Recommendations[0].Rationale)
}

func TestRecommend_ExcludesCurrentTools(t *testing.T) {
	t.Parallel()

	req := lowBudgetRequest()
	req.CurrentTools = []string{"vs  code"}
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)

	for _, r := range res.Recommendations {
		assert.NotEqual(t, "vs code", strings.ToLower(r.Tool.Name))
	}
	assert.Len(t, res.Recommendations, 2)
}

func TestRecommend_ExcludesReplacedTool(t *testing.T) {
	t.Parallel()

	req := lowBudgetRequest()
	req.Context = RecommendationContext{Intent: IntentReplaceExisting, ReplacingTool: "WebStorm", PainPoints: []string{"too expensive"}}
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.NotContains(t, names(res.Recommendations), "WebStorm")
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	t.Parallel()

	res, err := New(nil, Options{}).Recommend(context.Background(), Request{AvailableTools: []ToolRecord{}})
	require.NoError(t, err)
	assert.NotNil(t, res.Recommendations)
	assert.Empty(t, res.Recommendations)
	assert.Empty(t, res.Diagnostics)
}

func TestRecommend_AllOwned(t *testing.T) {
	t.Parallel()

	req := lowBudgetRequest()
	req.CurrentTools = []string{"VS Code", "WebStorm", "Sublime Text"}
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
}

func TestRecommend_RejectsNegativeLimit(t *testing.T) {
	t.Parallel()

	exp := &stubExpander{terms: []string{"x"}}
	req := lowBudgetRequest()
	req.Limit = -1
	req.Query = "editor"
	_, err := New(exp, Options{}).Recommend(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLimit))
	assert.Zero(t, exp.calls, "no stage may run on a contract violation")
}

func TestRecommend_RejectsBadDiversityCap(t *testing.T) {
	t.Parallel()

	for _, c := range []float64{-0.1, 1.5} {
		req := lowBudgetRequest()
		req.DiversityCap = c
		_, err := New(nil, Options{}).Recommend(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDiversityCap, "cap %v", c)
	}
}

func TestRecommend_BoundedOutput(t *testing.T) {
	t.Parallel()

	catalog := skewedCatalog(30, 10)
	for _, limit := range []int{1, 5, 12, 40, 200} {
		res, err := New(nil, Options{}).Recommend(context.Background(), Request{AvailableTools: catalog, Limit: limit})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(res.Recommendations), min(limit, len(catalog)), "limit %d", limit)
	}

	res, err := New(nil, Options{}).Recommend(context.Background(), Request{AvailableTools: catalog})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, DefaultLimit)
}

func TestRecommend_OrderingAndBounds(t *testing.T) {
	t.Parallel()

	catalog := append(skewedCatalog(12, 8), editorCatalog()...)
	req := Request{
		Profile:        &UserProfile{TeamSize: 8, ExperienceLevel: ExperienceBeginner, FeatureNeeds: []string{"collaboration"}},
		Behavior:       UserBehavior{CategoryMinutes: map[string]float64{"Design": 30, "Development": 10}},
		AvailableTools: catalog,
		Context:        RecommendationContext{Timeline: TimelineImmediate},
	}
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Recommendations)

	for i, r := range res.Recommendations {
		assert.GreaterOrEqual(t, r.RecommendationScore, 0.0)
		assert.LessOrEqual(t, r.RecommendationScore, 1.0)
		assert.GreaterOrEqual(t, r.ExpectedROI.ProductivityGain, 0.0)
		assert.LessOrEqual(t, r.ExpectedROI.ProductivityGain, 1.0)
		assert.Greater(t, r.ExpectedROI.ConfidenceLevel, 0.0)
		assert.LessOrEqual(t, r.ExpectedROI.ConfidenceLevel, 1.0)
		assert.GreaterOrEqual(t, r.ExpectedROI.CostSavings, 0.0)
		assert.True(t, strings.HasSuffix(r.ExpectedROI.TimeSavings, " hours/week"), r.ExpectedROI.TimeSavings)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Recommendations[i-1].RecommendationScore, r.RecommendationScore,
				"position %d out of order", i)
		}
	}
}

func TestRecommend_DiversityCap(t *testing.T) {
	t.Parallel()

	const n = 8
	res, err := New(nil, Options{}).Recommend(context.Background(), Request{
		AvailableTools: skewedCatalog(4*n, 10),
		Limit:          n,
	})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, n)

	dev := 0
	for _, r := range res.Recommendations {
		if r.Tool.Category == "Development" {
			dev++
		}
	}
	assert.LessOrEqual(t, dev, CategoryCap(n, DefaultDiversityCap))
}

func TestRecommend_SingleCategoryStillFills(t *testing.T) {
	t.Parallel()

	res, err := New(nil, Options{}).Recommend(context.Background(), Request{
		AvailableTools: skewedCatalog(10, 0),
		Limit:          6,
	})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 6)
}

func TestRecommend_GracefulDegradation(t *testing.T) {
	t.Parallel()

	base := lowBudgetRequest()
	base.Query = "typescript editor"

	plain, err := New(nil, Options{}).Recommend(context.Background(), base)
	require.NoError(t, err)

	failing := &stubExpander{err: errUpstream}
	degraded, err := New(failing, Options{}).Recommend(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, 1, failing.calls)

	assert.Equal(t, names(plain.Recommendations), names(degraded.Recommendations))
	for i := range plain.Recommendations {
		assert.Equal(t, plain.Recommendations[i].RecommendationScore, degraded.Recommendations[i].RecommendationScore)
	}
	assert.False(t, degraded.Interpretation.Expanded)
	assert.Equal(t, errUpstream.Error(), degraded.Interpretation.Fallback)
}

func TestRecommend_PanickingExpanderDegrades(t *testing.T) {
	t.Parallel()

	exp := ExpanderFunc(func(context.Context, string) ([]string, error) { panic("boom") })
	req := lowBudgetRequest()
	req.Query = "editor"
	res, err := New(exp, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
	assert.False(t, res.Interpretation.Expanded)
}

func TestRecommend_SlowExpanderTimesOut(t *testing.T) {
	t.Parallel()

	exp := ExpanderFunc(func(ctx context.Context, _ string) ([]string, error) {
		time.Sleep(2 * time.Second)
		return []string{"late"}, nil
	})
	req := lowBudgetRequest()
	req.Query = "editor"

	start := time.Now()
	res, err := New(exp, Options{ExpansionTimeout: 50 * time.Millisecond}).Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, res.Interpretation.Expanded)
	assert.Len(t, res.Recommendations, 3)
}

func TestRecommend_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, Options{}).Recommend(ctx, lowBudgetRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommend_ExpansionFeedsQueryRelevance(t *testing.T) {
	t.Parallel()

	catalog := []ToolRecord{
		genericTool("a", "Design", 4.0),
		genericTool("b", "Design", 4.0),
	}
	catalog[1].Tags = []string{"wireframe"}

	exp := &stubExpander{terms: []string{"wireframe", "prototype", "mockup", "ui kit", "figma"}}
	res, err := New(exp, Options{}).Recommend(context.Background(), Request{
		AvailableTools: catalog,
		Query:          "sketching screens",
	})
	require.NoError(t, err)
	require.True(t, res.Interpretation.Expanded)
	assert.Equal(t, "b", res.Recommendations[0].Tool.ID)
}

func TestRecommend_ExplicitFiltersOverrideInterpreted(t *testing.T) {
	t.Parallel()

	catalog := append(editorCatalog(), genericTool("fig", "Design", 4.5))
	res, err := New(nil, Options{}).Recommend(context.Background(), Request{
		AvailableTools: catalog,
		Query:          "design tools",
		Filters:        Filters{Categories: []string{"Development"}},
	})
	require.NoError(t, err)
	for _, r := range res.Recommendations {
		assert.Equal(t, "Development", r.Tool.Category)
	}
}

func TestRecommend_HyphenatedFreeKeepsPaidTools(t *testing.T) {
	t.Parallel()

	req := lowBudgetRequest()
	req.Query = "editor with free-form multiple cursors"
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, res.Interpretation.Filters.PricingModels)
	assert.ElementsMatch(t, []string{"VS Code", "WebStorm", "Sublime Text"}, names(res.Recommendations))
}

func TestRecommend_ImplausiblePriceIsExcluded(t *testing.T) {
	t.Parallel()

	req := lowBudgetRequest()
	req.AvailableTools[1].Pricing.StartingPrice = price(1e308)
	req.Profile.TeamSize = 10
	req.CurrentTools = []string{"WebStorm"}
	res, err := New(nil, Options{}).Recommend(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "webstorm", res.Diagnostics[0].ToolID)
	assert.Equal(t, "invalid starting price", res.Diagnostics[0].Reason)
	assert.NotContains(t, res.Insights.Budget.Note, "NaN")
	_, err = json.Marshal(res)
	assert.NoError(t, err)
}

func TestRecommend_MalformedRecordsBecomeDiagnostics(t *testing.T) {
	t.Parallel()

	catalog := editorCatalog()
	bad := genericTool("bad", "Design", 7)
	dup := genericTool("vscode", "Design", 4)
	uncategorised := genericTool("loose", "", 4)
	catalog = append(catalog, bad, dup, uncategorised)

	res, err := New(nil, Options{}).Recommend(context.Background(), Request{AvailableTools: catalog})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, "bad", res.Diagnostics[0].ToolID)
	assert.Equal(t, "duplicate tool id", res.Diagnostics[1].Reason)
	assert.Equal(t, "missing category", res.Diagnostics[2].Reason)
}

func TestRecommend_Deterministic(t *testing.T) {
	t.Parallel()

	req := Request{
		Profile:        &UserProfile{FeatureNeeds: []string{"collaboration"}, IntegrationNeeds: []string{"Slack"}},
		Behavior:       UserBehavior{CategoryMinutes: map[string]float64{"Design": 5, "Marketing": 5}},
		AvailableTools: skewedCatalog(20, 15),
		Limit:          10,
	}
	eng := New(nil, Options{})
	first, err := eng.Recommend(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := eng.Recommend(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, first.Recommendations, again.Recommendations, "iteration %d", i)
	}
}
