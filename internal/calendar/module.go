// Package calendar provides workshop scheduling: booked events plus a merged
// view that folds in jobs with a scheduled date.
package calendar

import (
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the calendar domain module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates a new calendar module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo)
	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "calendar"
}

// Service returns the service layer for external use.
func (m *Module) Service() *Service {
	return m.service
}

// SetJobScheduleReader injects the scheduled jobs adapter used by the
// merged schedule.
func (m *Module) SetJobScheduleReader(r JobScheduleReader) {
	m.service.SetJobScheduleReader(r)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/calendar"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
