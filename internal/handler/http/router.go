package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/afmejia23/reviews-and-ratings/internal/widget"
	"github.com/afmejia23/reviews-and-ratings/pkg/health"
	"github.com/afmejia23/reviews-and-ratings/pkg/middleware"
)

// RouterConfig collects the router's tunables.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all widget service routes registered.
func NewRouter(
	manager *widget.Manager,
	submitter Submitter,
	events Events,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("reviews-widget"))
	r.Use(middleware.Tracing("reviews-widget"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Widget API endpoints
	widgetHandler := NewWidgetHandler(manager, submitter, events, logger)

	r.Route("/api/v1/widget/sessions", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		r.Post("/", widgetHandler.CreateSession)
		r.Get("/{sessionID}", widgetHandler.GetView)
		r.Post("/{sessionID}/events", widgetHandler.HandleEvent)
		r.Post("/{sessionID}/reviews", widgetHandler.SubmitReview)
	})

	return r
}
