// Package app wires together all dependencies and runs the reviews widget
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afmejia23/reviews-and-ratings/internal/catalog"
	"github.com/afmejia23/reviews-and-ratings/internal/config"
	"github.com/afmejia23/reviews-and-ratings/internal/event"
	handler "github.com/afmejia23/reviews-and-ratings/internal/handler/http"
	"github.com/afmejia23/reviews-and-ratings/internal/session"
	"github.com/afmejia23/reviews-and-ratings/internal/widget"
	"github.com/afmejia23/reviews-and-ratings/pkg/database"
	"github.com/afmejia23/reviews-and-ratings/pkg/health"
	"github.com/afmejia23/reviews-and-ratings/pkg/httpclient"
	pkgkafka "github.com/afmejia23/reviews-and-ratings/pkg/kafka"
	"github.com/afmejia23/reviews-and-ratings/pkg/tracing"
)

// App wires together all dependencies and runs the widget service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "reviews-widget",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Upstream catalog client: retrying HTTP client behind a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.CatalogAPITimeout
	cbClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog-api"),
		logger,
	)
	catalogClient := catalog.NewClient(cbClient, cfg.CatalogAPIURL, logger)

	// Build the dependency graph.
	store := session.NewRedisStore(rdb, cfg.SessionTTL)
	manager := widget.NewManager(store, catalogClient, logger)
	eventProducer := event.NewProducer(producer, logger)

	// Health checks. Kafka is best-effort analytics, so its check never
	// fails readiness.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("catalog-api", catalogClient.Ping)
	healthHandler.RegisterNonCritical("kafka", producer.Ping)

	// HTTP router.
	router := handler.NewRouter(manager, catalogClient, eventProducer, healthHandler, logger, handler.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
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

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush traces.
	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
