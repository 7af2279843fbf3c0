package recommendations

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolfinder-backend/internal/shared/server/middleware"
	"toolfinder-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the recommendations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
	rg.POST("/recommendations/explain", h.explain)
}

func (h *Handler) recommend(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	var in RecommendRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	resp, err := h.Svc.Recommend(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to compute recommendations")
		return
	}
	middleware.SetLogField(c, "recommendation_count", len(resp.Recommendations))
	middleware.SetLogField(c, "profile_source", resp.ProfileSource)
	respond.OK(c, resp)
}

func (h *Handler) explain(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	var in ExplainRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	middleware.SetLogField(c, "tool_id", in.ToolID)
	resp, err := h.Svc.Explain(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to explain recommendation")
		return
	}
	respond.OK(c, resp)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrToolNotRanked):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "tool is not among your recommendations", nil)
	case errors.Is(err, ErrCatalogUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "catalog_unavailable", "tool catalog is unavailable", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "request cancelled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
