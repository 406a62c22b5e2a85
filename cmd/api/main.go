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

	"commute_backend/internal/commute"
	"commute_backend/internal/commute/domain"
	"commute_backend/internal/commute/repository"
	"commute_backend/internal/commute/routing"
	"commute_backend/internal/events"
	apphttp "commute_backend/internal/http"
	"commute_backend/internal/http/router"
	"commute_backend/internal/maps"
	"commute_backend/internal/notification"
	"commute_backend/platform/cache"
	"commute_backend/platform/config"
	"commute_backend/platform/geo"
	"commute_backend/platform/logger"
	"commute_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "routing", cfg.RoutingProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	store, health, closeStore := initSessionStore(ctx, cfg, log)
	defer closeStore()

	routeProvider, err := routing.New(cfg)
	if err != nil {
		log.Error("failed to initialize routing provider", "error", err)
		panic("failed to initialize routing provider: " + err.Error())
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	mapsModule := maps.NewModule(cfg, log)

	lat, lng := cfg.GetDefaultCenter()
	commuteModule := commute.NewModule(
		store,
		routeProvider,
		domain.NewGenerator(cfg.GetHouseSeed()),
		eventBus,
		geo.Coordinate{Lat: lat, Lng: lng},
		val,
		log,
	)
	commuteModule.Service().SetGeocoder(mapsModule.Service())

	// Notification module pushes session changes to open event streams
	notificationModule := notification.New(log)
	notificationModule.SetSessionChecker(commuteModule.Service())
	notificationModule.RegisterHandlers(eventBus)

	if health == nil {
		health = commuteModule.Service()
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			mapsModule,
			commuteModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
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

		// Event streams never end on their own, close them before draining.
		notificationModule.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	commuteModule.Close()
	eventBus.Wait()
	log.Info("server stopped")
}

// initSessionStore picks Redis when REDIS_URL is set and the in-memory store
// otherwise. The returned health checker is nil for the in-memory store.
func initSessionStore(ctx context.Context, cfg config.SessionStoreConfig, log *logger.Logger) (repository.SessionStore, apphttp.HealthChecker, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; sessions are kept in memory")
		return repository.NewMemoryStore(cfg.GetSessionTTL()), nil, func() {}
	}

	var client *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		c, err := cache.NewClient(ctx, cfg.GetRedisURL())
		if err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	log.Info("redis connection established")

	return repository.NewRedisStore(client, cfg.GetSessionTTL()), cache.NewHealthAdapter(client), func() {
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
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
