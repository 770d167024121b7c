// Package customers provides the customer records module. Documents carry
// snapshots of these records; the live record is only the current contact info.
package customers

import (
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the customers domain module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates a new customers module with all dependencies wired.
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
	return "customers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/customers"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
