package calendar

import (
	"net/http"
	"time"

	"garage_crm_backend/platform/httpkit"
	"garage_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidRange     = "start and end must be RFC 3339 dates with start before end"
)

// Handler handles HTTP requests for the calendar.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new calendar handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the calendar routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/range", h.ListRange)
	rg.GET("/schedule", h.Schedule)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// parseRange reads start and end query params as RFC 3339 timestamps or
// plain YYYY-MM-DD dates.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	parse := func(v string) (time.Time, error) {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", v)
	}

	start, err := parse(c.Query("start"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := parse(c.Query("end"))
	if err != nil || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) List(c *gin.Context) {
	events, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, events)
}

func (h *Handler) ListRange(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRange, nil)
		return
	}

	events, err := h.svc.ListRange(c.Request.Context(), start, end)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, events)
}

func (h *Handler) Schedule(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRange, nil)
		return
	}

	entries, err := h.svc.Schedule(c.Request.Context(), start, end)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, entries)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	event, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, event)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	event, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, event)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	event, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, event)
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
	httpkit.OK(c, gin.H{"message": "calendar event deleted"})
}
