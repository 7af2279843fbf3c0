package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "toolfinder-backend/internal/auth"
	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/profiles"
	"toolfinder-backend/internal/recommendations"
	"toolfinder-backend/internal/services/health"
	"toolfinder-backend/internal/shared/config"
	"toolfinder-backend/internal/shared/metrics"
	"toolfinder-backend/internal/shared/server/middleware"
	"toolfinder-backend/internal/shared/server/respond"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupRank    = "RANK"
)

// RouterDeps carries the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config                 config.Config
	CatalogHandler         *catalog.Handler
	ProfileHandler         *profiles.Handler
	RecommendationsHandler *recommendations.Handler
	GoogleAuth             *googleauth.GoogleService
	Health                 *health.Service
	Limiter                *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimitConfig(cfg, deps.Limiter)),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api)

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.RecommendationsHandler != nil {
		deps.RecommendationsHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig gives ranking calls their own bucket at the configured rate;
// everything else gets four times that.
func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rank := middleware.RateLimitRule{Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		Limiter:      limiter,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasPrefix(c.FullPath(), "/api/v1/recommendations") {
				return rateGroupRank
			}
			return rateGroupDefault
		},
		Rules: map[string]middleware.RateLimitRule{
			rateGroupRank:    rank,
			rateGroupDefault: {Rate: rank.Rate * 4, Burst: rank.Burst * 4},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
