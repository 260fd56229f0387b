package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outbound_ai_backend/internal/calls"
	"outbound_ai_backend/internal/events"
	apphttp "outbound_ai_backend/internal/http"
	"outbound_ai_backend/internal/http/router"
	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/internal/metrics"
	"outbound_ai_backend/internal/voice"
	"outbound_ai_backend/internal/webhook"
	"outbound_ai_backend/platform/config"
	"outbound_ai_backend/platform/db"
	"outbound_ai_backend/platform/logger"
	"outbound_ai_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

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
		return db.RunMigrations(ctx, cfg)
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

	guard, closeRedis := initDuplicateGuard(ctx, cfg, log)
	if closeRedis != nil {
		defer closeRedis()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	if !cfg.IsVoiceEnabled() {
		log.Warn("VOICE_API_KEY not configured; trigger-call requests will fail")
	}
	voiceClient := voice.NewClient(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadRepo := repository.New(pool)

	// Metrics subscribe to domain events
	metricsModule := metrics.New()
	metricsModule.RegisterHandlers(eventBus)

	webhookModule := webhook.NewModule(leadRepo, guard, eventBus, cfg, log)
	callsModule := calls.NewModule(leadRepo, voiceClient, eventBus, val, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			metricsModule,
			webhookModule,
			callsModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// initDuplicateGuard connects to Redis when configured. Without Redis, duplicate
// webhook deliveries are processed again, which is harmless because updates overwrite.
func initDuplicateGuard(ctx context.Context, cfg *config.Config, log *logger.Logger) (webhook.DuplicateGuard, func()) {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; webhook duplicate detection disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; webhook duplicate detection disabled", "error", err)
		return nil, nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis not reachable at startup; duplicate checks will fail open", "error", err)
	}

	return webhook.NewRedisGuard(client, cfg.GetWebhookDedupTTL()), func() {
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
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
