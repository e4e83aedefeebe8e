package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pnll1991/expedicion-andina/internal/config"
	"github.com/pnll1991/expedicion-andina/internal/middleware"
	"github.com/pnll1991/expedicion-andina/internal/service"
	"github.com/pnll1991/expedicion-andina/pkg/health"
	"github.com/pnll1991/expedicion-andina/pkg/httputil"
	pkgmw "github.com/pnll1991/expedicion-andina/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "reviews-gateway"

// NewRouter creates a chi router with the global middleware stack, the
// operational endpoints and the reviews API.
func NewRouter(
	cfg *config.Config,
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(pkgmw.CORS(pkgmw.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		ExposedHeaders:   []string{pkgmw.CorrelationIDHeader},
		MaxAge:           cfg.CORSMaxAge,
		AllowCredentials: cfg.CORSAllowCredentials,
		Environment:      cfg.Environment,
	}))
	r.Use(pkgmw.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(pkgmw.RequestLogging(logger))
	r.Use(pkgmw.PrometheusMetrics(ServiceName))
	r.Use(pkgmw.Tracing(ServiceName))
	r.Use(pkgmw.RequestLogger(logger))

	r.NotFound(httputil.NotFoundHandler())
	r.MethodNotAllowed(httputil.MethodNotAllowedHandler())

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	r.With(pkgmw.IPAllowlist(cfg.MetricsAllowedCIDRs, logger)).
		Handle("/metrics", promhttp.Handler())

	pkgmw.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	reviewsHandler := NewReviewsHandler(reviewService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RPS:               cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
			TrustForwardedFor: cfg.TrustProxy,
		}, logger))

		r.Get("/google-reviews", reviewsHandler.GetReviews)
	})

	return r
}
