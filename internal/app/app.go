// Package app wires together all dependencies and runs the rental listing API.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/qm1997qm/home-away-clone/internal/config"
	"github.com/qm1997qm/home-away-clone/internal/event"
	handler "github.com/qm1997qm/home-away-clone/internal/handler/http"
	"github.com/qm1997qm/home-away-clone/internal/identity"
	"github.com/qm1997qm/home-away-clone/internal/repository/postgres"
	"github.com/qm1997qm/home-away-clone/internal/revalidate"
	"github.com/qm1997qm/home-away-clone/internal/service"
	"github.com/qm1997qm/home-away-clone/internal/storage"
	"github.com/qm1997qm/home-away-clone/internal/storage/bucket"
	"github.com/qm1997qm/home-away-clone/internal/storage/memory"
	"github.com/qm1997qm/home-away-clone/migrations"
	"github.com/qm1997qm/home-away-clone/pkg/database"
	"github.com/qm1997qm/home-away-clone/pkg/health"
	"github.com/qm1997qm/home-away-clone/pkg/httpclient"
	pkgkafka "github.com/qm1997qm/home-away-clone/pkg/kafka"
	"github.com/qm1997qm/home-away-clone/pkg/middleware"
	"github.com/qm1997qm/home-away-clone/pkg/tracing"
)

// App wires together all dependencies and runs the API server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "home-away",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "home-away")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis, used to drop cached pages after mutations.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))

	// Initialize Kafka producer.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Outbound HTTP clients, each behind its own circuit breaker.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	identityHTTP := httpclient.NewCircuitBreakerClient(baseClient,
		httpclient.DefaultCircuitBreakerConfig("identity"), logger)
	bucketHTTP := httpclient.NewCircuitBreakerClient(baseClient,
		httpclient.DefaultCircuitBreakerConfig("bucket"), logger)

	identityClient := identity.NewClient(identity.ClientConfig{
		BaseURL: cfg.IdentityBaseURL,
		APIKey:  cfg.IdentityAPIKey,
	}, identityHTTP, logger)

	var store storage.Storage
	if cfg.BucketBaseURL != "" {
		store = bucket.New(bucket.Config{
			BaseURL: cfg.BucketBaseURL,
			Bucket:  cfg.BucketName,
			APIKey:  cfg.BucketAPIKey,
		}, bucketHTTP, logger)
	} else {
		store = memory.New(fmt.Sprintf("http://localhost:%d", cfg.HTTPPort))
		logger.Warn("no bucket configured, storing image metadata in memory")
	}

	// Build the dependency graph.
	jwtManager := identity.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)
	profileRepo := postgres.NewProfileRepository(pool)
	propertyRepo := postgres.NewPropertyRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	revalidator := revalidate.New(redisClient, logger)
	eventProducer := event.NewProducer(producer, logger)

	profileService := service.NewProfileService(profileRepo, identityClient, store, eventProducer, revalidator, logger)
	propertyService := service.NewPropertyService(propertyRepo, store, eventProducer, revalidator, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, revalidator, logger)
	reviewService := service.NewReviewService(reviewRepo, eventProducer, revalidator, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		Profiles:      profileService,
		Properties:    propertyService,
		Favorites:     favoriteService,
		Reviews:       reviewService,
		JWTManager:    jwtManager,
		HealthHandler: healthHandler,
		Logger:        logger,
		CORS:          corsCfg,
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
		redis:          redisClient,
		producer:       producer,
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
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer and Redis client
// 4. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
