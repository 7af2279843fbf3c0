package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolfinder-backend/internal/shared/server/middleware"
	"toolfinder-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tools", h.list)
	rg.GET("/tools/:id", h.get)
	rg.GET("/categories", h.categories)
	rg.POST("/tools/submissions", h.submit)
}

func (h *Handler) list(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	tools, err := h.Svc.Tools(c.Request.Context(), c.Query("category"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load tools", nil)
		return
	}
	respond.List(c, "tools", tools)
}

func (h *Handler) get(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	tool, err := h.Svc.Tool(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "tool not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load tool", nil)
		return
	}
	respond.OK(c, tool)
}

func (h *Handler) categories(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	stats, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load categories", nil)
		return
	}
	respond.List(c, "categories", stats)
}

func (h *Handler) submit(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	var in SubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	sub, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalidSubmission) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to store submission", nil)
		return
	}
	respond.Accepted(c, sub)
}
