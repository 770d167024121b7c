// Package jobs provides the workshop jobs domain module.
package jobs

import (
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/internal/jobs/handler"
	"garage_crm_backend/internal/jobs/repository"
	"garage_crm_backend/internal/jobs/service"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the jobs domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new jobs module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "jobs"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetCustomerEnsurer injects the customer upsert adapter.
func (m *Module) SetCustomerEnsurer(e service.CustomerEnsurer) {
	m.service.SetCustomerEnsurer(e)
}

// SetSettingsReader injects the settings defaults adapter.
func (m *Module) SetSettingsReader(r service.SettingsReader) {
	m.service.SetSettingsReader(r)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/jobs"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
