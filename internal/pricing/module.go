// Package pricing provides the pricing resolution domain module: engagement
// model configurations, membership fee schedules, and tier availability.
package pricing

import (
	"time"

	apphttp "activation_backend/internal/http"
	"activation_backend/internal/pricing/handler"
	"activation_backend/internal/pricing/repository"
	"activation_backend/internal/pricing/service"
	"activation_backend/platform/logger"
	"activation_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module represents the pricing domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new pricing module with all dependencies wired.
// When rdb is non-nil the reference-data queries are served through a Redis
// read-through cache.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, cacheTTL time.Duration, contexts handler.ContextProvider, val *validator.Validator, log *logger.Logger) *Module {
	var src repository.Source = repository.New(pool)
	if rdb != nil {
		src = repository.NewCachedSource(src, rdb, cacheTTL)
	}
	svc := service.New(src, log)
	h := handler.New(svc, contexts, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "pricing"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	pricing := ctx.Protected.Group("/pricing")
	pricing.GET("/resolve", m.handler.Resolve)
	pricing.GET("/compare", m.handler.Compare)
	pricing.GET("/membership-fees", m.handler.MembershipFees)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
