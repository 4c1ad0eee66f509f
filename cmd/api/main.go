package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activation_backend/internal/activation"
	activationrepo "activation_backend/internal/activation/repository"
	"activation_backend/internal/adapters"
	"activation_backend/internal/email"
	"activation_backend/internal/events"
	apphttp "activation_backend/internal/http"
	"activation_backend/internal/http/router"
	"activation_backend/internal/notification"
	"activation_backend/internal/organizations"
	"activation_backend/internal/pricing"
	pricingsvc "activation_backend/internal/pricing/service"
	"activation_backend/migrations"
	"activation_backend/platform/config"
	"activation_backend/platform/db"
	"activation_backend/platform/logger"
	"activation_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	rdb, closeRedis := initRedis(cfg, log)
	if closeRedis != nil {
		defer closeRedis()
	}

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()
	registerDomainValidators(val)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	organizationsModule := organizations.NewModule(pool, val, log)
	organizationsModule.Service().SetEventBus(eventBus)

	// Pricing lookups resolve the caller's context through the activation
	// module. The activation service in turn re-validates selections against
	// pricing, so the context adapter is bound after both modules exist.
	contexts := adapters.NewActivationContexts()
	pricingModule := pricing.NewModule(pool, rdb, cfg.GetPricingCacheTTL(), contexts, val, log)

	profileReader := adapters.NewOrganizationProfiles(organizationsModule.Service())
	pricingChecks := adapters.NewPricingChecks(pricingModule.Service())
	activationModule := activation.NewModule(pool, profileReader, pricingChecks, eventBus, val, log)
	contexts.Bind(activationModule.Service())

	notificationModule := notification.NewModule(sender, log)
	notificationModule.SetWorkflowLoader(activationModule.Service())
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			organizationsModule,
			pricingModule,
			activationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// registerDomainValidators adds the closed-set tags used by the transport
// DTOs: workflow step names and billing frequencies.
func registerDomainValidators(val *validator.Validator) {
	_ = val.RegisterValidation("workflowstep", func(fl govalidator.FieldLevel) bool {
		_, ok := activationrepo.ParseStep(fl.Field().String())
		return ok
	})
	_ = val.RegisterValidation("billingfrequency", func(fl govalidator.FieldLevel) bool {
		return pricingsvc.ValidFrequency(fl.Field().String())
	})
}

func initRedis(cfg config.RedisConfig, log *logger.Logger) (*redis.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; pricing cache disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; pricing cache disabled", "error", err)
		return nil, nil
	}

	client := redis.NewClient(opts)
	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}
