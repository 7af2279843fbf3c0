package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure stages for recommendations_failed_total.
const (
	StageRequest = "request"
	StageEngine  = "engine"
)

var (
	recommendationsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_requested_total",
		Help: "Total recommendation requests",
	})

	recommendationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_failed_total",
		Help: "Total recommendation requests that failed, by stage",
	}, []string{"stage"})

	recommendationsEmpty = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_empty_total",
		Help: "Total recommendation requests with no results",
	})

	expansionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expansion_fallback_total",
		Help: "Total queries ranked without expansion",
	})

	catalogDiagnostics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_diagnostics_total",
		Help: "Total malformed catalog records skipped",
	})

	explanationsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explanations_rendered_total",
		Help: "Total tool explanations generated, by source",
	}, []string{"source"})

	recommendationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_duration_ms",
		Help:    "Recommendation duration in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
)

// IncRecommendationRequested counts an accepted ranking request.
func IncRecommendationRequested() {
	recommendationsRequested.Inc()
}

// IncRecommendationFailed counts a ranking request that returned an error at stage.
func IncRecommendationFailed(stage string) {
	recommendationsFailed.WithLabelValues(stage).Inc()
}

// IncRecommendationEmpty counts a ranking request with no eligible tools.
func IncRecommendationEmpty() {
	recommendationsEmpty.Inc()
}

// IncExpansionFallback counts a query that ran unexpanded.
func IncExpansionFallback() {
	expansionFallbacks.Inc()
}

// AddCatalogDiagnostics counts malformed catalog records skipped while ranking.
func AddCatalogDiagnostics(n int) {
	if n > 0 {
		catalogDiagnostics.Add(float64(n))
	}
}

// IncExplanationRendered counts a generated explanation by where its text came from.
func IncExplanationRendered(source string) {
	explanationsRendered.WithLabelValues(source).Inc()
}

// ObserveRecommendationDurationMs records a ranking duration in milliseconds.
func ObserveRecommendationDurationMs(value float64) {
	recommendationDuration.Observe(max(value, 0))
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
