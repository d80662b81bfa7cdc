// Package control wires the resilience core together and manages the
// application lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vietddude/storecore/internal/api"
	"github.com/vietddude/storecore/internal/audit"
	"github.com/vietddude/storecore/internal/cache"
	"github.com/vietddude/storecore/internal/catalog"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/config"
	"github.com/vietddude/storecore/internal/core/worker"
	"github.com/vietddude/storecore/internal/health"
	redisclient "github.com/vietddude/storecore/internal/infra/redis"
	"github.com/vietddude/storecore/internal/infra/store"
	"github.com/vietddude/storecore/internal/infra/store/memory"
	"github.com/vietddude/storecore/internal/infra/store/postgres"
	"github.com/vietddude/storecore/internal/notify"
	"github.com/vietddude/storecore/internal/orders"
	"github.com/vietddude/storecore/internal/settings"
)

// Config holds the application configuration.
type Config struct {
	Port          int
	HealthPort    int
	Database      postgres.Config
	Redis         redisclient.Config
	Cache         config.CacheConfig
	Notify        config.NotifyConfig
	MigrationsDir string
	DevMode       bool
}

// App is the assembled storefront core.
type App struct {
	cfg Config
	log *slog.Logger

	db          *postgres.DB
	redisClient *redisclient.Client
	cacheMgr    *cache.Manager
	queue       *worker.Queue

	apiServer    *api.Server
	healthServer *health.Server

	cancel context.CancelFunc
}

// NewApp creates an App with all dependencies initialized.
func NewApp(cfg Config) (*App, error) {
	log := slog.Default()

	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	// 1. Storage
	var productRepo store.ProductRepository
	var settingsRepo store.SettingsRepository
	var orderRepo store.OrderRepository
	var auditRepo store.AuditRepository
	var signalRepo store.SignalRepository
	var errorSink apperr.ErrorSink
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(cfg.MigrationsDir); err != nil {
			return nil, err
		}

		productRepo = postgres.NewProductRepo(db)
		settingsRepo = postgres.NewSettingsRepo(db)
		orderRepo = postgres.NewOrderRepo(db)
		auditRepo = postgres.NewAuditRepo(db)
		signalRepo = postgres.NewSignalRepo(db)
		errorSink = postgres.NewErrorLogRepo(db)

		log.Info("Using PostgreSQL storage")
	} else {
		mem := memory.NewMemoryStorage()
		mem.SeedProducts(catalog.FallbackProducts())

		productRepo = memory.NewProductRepo(mem)
		settingsRepo = memory.NewSettingsRepo(mem)
		orderRepo = memory.NewOrderRepo(mem)
		auditRepo = memory.NewAuditRepo(mem)
		signalRepo = memory.NewSignalRepo(mem)
		errorSink = memory.NewErrorLogRepo(mem)

		log.Info("Using Memory storage")
	}

	reporter := apperr.NewReporter(log, errorSink)

	// 2. Redis invalidation bus (optional)
	var redisClient *redisclient.Client
	var bus cache.InvalidationBus
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		bus = redisClient
		log.Info("Cache invalidation bus enabled")
	}

	// 3. Core components
	cacheMgr := cache.NewManager(reporter, bus)
	queue := worker.NewQueue(256, 0, log)

	auditRec := audit.NewRecorder(auditRepo, log)
	cat := catalog.New(cacheMgr, productRepo, cfg.Cache.CatalogTTL)
	eng := settings.New(cacheMgr, settingsRepo, auditRec, cfg.Cache.SettingsTTL)
	writer := orders.NewWriter(orderRepo, signalRepo, queue, reporter)

	providers := make([]notify.Provider, 0, len(cfg.Notify.Providers))
	for _, p := range cfg.Notify.Providers {
		providers = append(providers, notify.NewHTTPProvider(p.Name, p.URL, p.APIKey, p.Timeout))
	}
	dispatcher := notify.NewDispatcher(reporter, providers...)

	apiServer := api.NewServer(cfg.Port, cat, eng, writer, dispatcher, queue, log, cfg.DevMode)

	// 4. Health
	checkers := []health.Checker{}
	if db != nil {
		checkers = append(checkers, health.CheckerFunc{
			ComponentName: "database",
			IsCritical:    true,
			Fn:            db.Health,
		})
	}
	if redisClient != nil {
		checkers = append(checkers, health.CheckerFunc{
			ComponentName: "redis",
			Fn:            redisClient.Health,
		})
	}
	for _, p := range cfg.Notify.Providers {
		checkers = append(checkers, health.CheckerFunc{
			ComponentName: "notify-" + p.Name,
			Fn:            providerCredentialCheck(p),
		})
	}
	healthServer := health.NewServer(health.NewMonitor(checkers...), cfg.HealthPort)

	return &App{
		cfg:          cfg,
		log:          log,
		db:           db,
		redisClient:  redisClient,
		cacheMgr:     cacheMgr,
		queue:        queue,
		apiServer:    apiServer,
		healthServer: healthServer,
	}, nil
}

// providerCredentialCheck reports a notification provider whose
// endpoint or key is unset. Degraded only: every send through that
// provider will fail immediately and the chain fails over past it.
func providerCredentialCheck(p config.ProviderConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p.URL == "" || p.APIKey == "" {
			return fmt.Errorf("provider %s has no credentials configured", p.Name)
		}
		return nil
	}
}

// Start launches the background workers and HTTP servers.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.queue.Start()

	if a.db != nil {
		a.db.StartMetricsCollector(runCtx)
	}
	if a.redisClient != nil {
		a.redisClient.Subscribe(runCtx, a.cacheMgr.InvalidateLocal)
	}

	go func() {
		a.log.Info("API server listening", "port", a.cfg.Port)
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("API server failed", "error", err)
		}
	}()
	go func() {
		a.log.Info("Health server listening", "port", a.cfg.HealthPort)
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Health server failed", "error", err)
		}
	}()

	return nil
}

// Stop shuts everything down, draining the background queue so
// fire-and-forget effects complete or time out in-process.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	var firstErr error
	if err := a.apiServer.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.healthServer.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.queue.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
