// Package auth provides the authentication bounded context module.
package auth

import (
	"garage_crm_backend/internal/auth/handler"
	"garage_crm_backend/internal/auth/repository"
	"garage_crm_backend/internal/auth/service"
	apphttp "garage_crm_backend/internal/http"
	"garage_crm_backend/platform/config"
	"garage_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
