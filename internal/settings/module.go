// Package settings provides the singleton business settings module:
// workshop profile, document defaults and number prefixes.
package settings

import (
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the settings domain module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates a new settings module with all dependencies wired.
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
	return "settings"
}

// Service returns the service layer for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/settings"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
