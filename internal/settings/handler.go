package settings

import (
	"net/http"

	"garage_crm_backend/platform/httpkit"
	"garage_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for settings.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new settings handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the settings routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Save)
}

// Get returns the saved settings, or an empty object before first save.
func (h *Handler) Get(c *gin.Context) {
	saved, err := h.svc.Get(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	if saved == nil {
		httpkit.OK(c, gin.H{})
		return
	}
	httpkit.OK(c, saved)
}

func (h *Handler) Save(c *gin.Context) {
	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	saved, err := h.svc.Save(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, saved)
}
