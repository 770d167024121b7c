package handler

import (
	"net/http"

	"garage_crm_backend/internal/enquiries/service"
	"garage_crm_backend/internal/enquiries/transport"
	"garage_crm_backend/platform/httpkit"
	"garage_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for enquiries.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new enquiries handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the authenticated enquiry routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.POST("/:id/convert", h.Convert)
	rg.DELETE("/:id", h.Delete)
}

// RegisterPublicRoutes registers the unauthenticated submission route used by
// website contact forms.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
}

func (h *Handler) List(c *gin.Context) {
	enquiries, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, enquiries)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	enquiry, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, enquiry)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	enquiry, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, enquiry)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateEnquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	enquiry, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, enquiry)
}

func (h *Handler) Convert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Convert(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "enquiry deleted"})
}
