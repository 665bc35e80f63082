package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/DannyJSullivan/card-inventory-api/internal/auth"
	"github.com/DannyJSullivan/card-inventory-api/internal/config"
	handler "github.com/DannyJSullivan/card-inventory-api/internal/handler/http"
	"github.com/DannyJSullivan/card-inventory-api/internal/repository/postgres"
	"github.com/DannyJSullivan/card-inventory-api/internal/service"
	"github.com/DannyJSullivan/card-inventory-api/migrations"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
	"github.com/DannyJSullivan/card-inventory-api/pkg/health"
	"github.com/DannyJSullivan/card-inventory-api/pkg/middleware"
	"github.com/DannyJSullivan/card-inventory-api/pkg/tracing"
)

const startupTimeout = 30 * time.Second

// App wires together all dependencies and runs the API server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	httpServer     *http.Server
	tracerShutdown tracing.Shutdown
}

// NewApp creates a new application instance, initializing all dependencies.
// Pending migrations are applied before the server is built.
func NewApp(cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := connect(ctx, cfg, logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, err
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterPoolMetrics(registry, pool, config.ServiceName); err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Build the dependency graph.
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	jwtManager, err := auth.NewJWTManager(cfg.Token())
	if err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("jwt manager: %w", err)
	}
	authService := service.NewAuthService(
		postgres.NewUserRepository(),
		database.NewPoolTransactor(pool),
		hasher,
		jwtManager,
		service.NewMetrics(registry),
		logger,
	)

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		AuthService: authService,
		Health:      newHealthHandler(pool),
		HTTPMetrics: middleware.NewHTTPMetrics(registry, config.ServiceName),
		Gatherer:    registry,
		CORS:        corsConfig(cfg),
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// Migrate applies pending migrations and returns.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	return nil
}

// NewUserAdmin connects to the database and returns the operator service
// together with a function that releases the pool.
func NewUserAdmin(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.UserAdmin, func(), error) {
	pool, err := connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	admin := service.NewUserAdmin(postgres.NewUserRepository(), database.NewPoolTransactor(pool), logger)
	return admin, pool.Close, nil
}

func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.Int("max_conns", int(pool.Config().MaxConns)),
	)

	// Configure slow query logging.
	if threshold := cfg.SlowQueryThreshold(); threshold > 0 {
		database.SetSlowQueryLogging(threshold, logger)
	}
	return pool, nil
}

func newHealthHandler(pool *pgxpool.Pool) *health.Handler {
	h := health.NewHandler()
	h.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	h.RegisterNonCritical("db_pool", func(context.Context) error {
		return poolSaturation(pool.Stat())
	})
	return h
}

type poolStat interface {
	AcquiredConns() int32
	MaxConns() int32
}

// poolSaturation fails when every pool connection is checked out.
func poolSaturation(s poolStat) error {
	if s.MaxConns() > 0 && s.AcquiredConns() >= s.MaxConns() {
		return fmt.Errorf("pool exhausted: %d/%d connections in use", s.AcquiredConns(), s.MaxConns())
	}
	return nil
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		c.AllowedOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
