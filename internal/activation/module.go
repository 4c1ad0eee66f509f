// Package activation provides the activation workflow domain module: the
// ordered onboarding steps, the durable per-organization activation record,
// and reconciliation of saved selections against the current profile.
package activation

import (
	"activation_backend/internal/activation/handler"
	"activation_backend/internal/activation/ports"
	"activation_backend/internal/activation/repository"
	"activation_backend/internal/activation/service"
	"activation_backend/internal/events"
	apphttp "activation_backend/internal/http"
	"activation_backend/platform/logger"
	"activation_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the activation domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new activation module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, profiles ports.ProfileReader, pricing ports.PricingChecker, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	store := repository.New(pool, log)
	svc := service.New(store, profiles, pricing, log)
	if bus != nil {
		svc.SetEventBus(bus)
	}
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "activation"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	activation := ctx.Protected.Group("/activation")
	activation.GET("", m.handler.Load)
	activation.POST("/transition", m.handler.Transition)
	activation.POST("/edit", m.handler.Edit)
	activation.POST("/frequency", m.handler.ChangeFrequency)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
