// Package organizations provides the organization profile domain module.
package organizations

import (
	apphttp "activation_backend/internal/http"
	"activation_backend/internal/organizations/handler"
	"activation_backend/internal/organizations/repository"
	"activation_backend/internal/organizations/service"
	"activation_backend/platform/logger"
	"activation_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the organizations domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new organizations module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "organizations"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	orgs := ctx.Protected.Group("/organizations")
	orgs.GET("/me", m.handler.GetProfile)
	orgs.PUT("/me", m.handler.UpdateProfile)

	admin := ctx.Admin.Group("/organizations")
	admin.POST("", m.handler.Create)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
