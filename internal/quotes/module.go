// Package quotes provides the quote lifecycle domain module.
package quotes

import (
	"garage_crm_backend/internal/events"
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/internal/quotes/handler"
	"garage_crm_backend/internal/quotes/repository"
	"garage_crm_backend/internal/quotes/service"
	"garage_crm_backend/platform/logger"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetInvoiceWriter injects the invoice creation adapter used by conversion.
func (m *Module) SetInvoiceWriter(w service.InvoiceWriter) {
	m.service.SetInvoiceWriter(w)
}

// SetJobMarker injects the job status adapter.
func (m *Module) SetJobMarker(jm service.JobMarker) {
	m.service.SetJobMarker(jm)
}

// SetSettingsReader injects the settings defaults adapter.
func (m *Module) SetSettingsReader(r service.SettingsReader) {
	m.service.SetSettingsReader(r)
}

// SetEventBus injects the event bus for domain events.
func (m *Module) SetEventBus(bus events.Bus) {
	m.service.SetEventBus(bus)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
