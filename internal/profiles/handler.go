package profiles

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
	rg.GET("/me/profile", h.get)
	rg.PUT("/me/profile", h.put)
	rg.POST("/me/events", h.event)
}

func (h *Handler) get(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load profile", nil)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) put(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	var in Update
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to save profile", nil)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) event(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return
	}
	var ev Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	behavior, err := h.Svc.RecordEvent(c.Request.Context(), middleware.UserIDFromContext(c), ev)
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to record event", nil)
		return
	}
	respond.OK(c, gin.H{"behavior": behavior})
}
