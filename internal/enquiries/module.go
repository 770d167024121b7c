// Package enquiries provides the workshop enquiries domain module, including
// the public submission endpoint and conversion to jobs.
package enquiries

import (
	"garage_crm_backend/internal/enquiries/handler"
	"garage_crm_backend/internal/enquiries/repository"
	"garage_crm_backend/internal/enquiries/service"
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/platform/events"
	"garage_crm_backend/platform/logger"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the enquiries domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new enquiries module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.SetEventBus(bus)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "enquiries"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetJobWriter injects the job creation adapter used by conversion.
func (m *Module) SetJobWriter(w service.JobWriter) {
	m.service.SetJobWriter(w)
}

// RegisterRoutes registers the module's routes. Submission is public; the
// management surface requires auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/enquiries"))
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/enquiries"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
