package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pnll1991/expedicion-andina/internal/config"
	handler "github.com/pnll1991/expedicion-andina/internal/handler/http"
	"github.com/pnll1991/expedicion-andina/internal/places"
	"github.com/pnll1991/expedicion-andina/internal/service"
	"github.com/pnll1991/expedicion-andina/pkg/health"
	"github.com/pnll1991/expedicion-andina/pkg/httpclient"
	"github.com/pnll1991/expedicion-andina/pkg/tracing"
)

// App wires together all dependencies and runs the reviews gateway.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance. The gateway keeps no state of
// its own: one Places client, one service and the HTTP router.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    cfg.OTELServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		Insecure:       cfg.OTELInsecure,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	placesClient := places.NewClient(newPlacesDoer(cfg, logger), cfg.PlacesBaseURL, cfg.PlacesAPIKey, logger)
	if !placesClient.Configured() {
		logger.Warn("GOOGLE_PLACES_API_KEY not set, serving default reviews")
	}

	reviewService := service.NewReviewService(placesClient, logger)

	healthHandler := health.NewHandler()
	healthHandler.SetInfo("places_configured", cfg.PlacesConfigured())
	if cfg.PlacesConfigured() {
		healthHandler.RegisterNonCritical("places", health.TCPDialChecker(cfg.PlacesBaseURL))
	}

	router := handler.NewRouter(cfg, reviewService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newPlacesDoer builds the single-shot client used for Google calls, behind a
// circuit breaker unless it is disabled.
func newPlacesDoer(cfg *config.Config, logger *slog.Logger) httpclient.Doer {
	clientCfg := httpclient.SingleShotConfig(cfg.PlacesTimeout)
	clientCfg.UserAgent = cfg.OTELServiceName + "/" + cfg.ServiceVersion
	client := httpclient.New(clientCfg)

	if !cfg.BreakerEnabled {
		return client
	}

	cbCfg := httpclient.DefaultCircuitBreakerConfig("places")
	cbCfg.Timeout = cfg.BreakerTimeout
	cbCfg.FailureRatio = cfg.BreakerFailureRatio
	cbCfg.MinRequests = cfg.BreakerMinRequests
	cb := httpclient.NewCircuitBreakerClient(client, cbCfg, logger)
	logger.Info("places circuit breaker enabled",
		slog.String("breaker", cb.Name()),
		slog.String("state", cb.State().String()),
		slog.Duration("open_timeout", cbCfg.Timeout),
	)
	return cb
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.httpServer.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln until ctx is canceled, then shuts down.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", ln.Addr().String()),
			slog.Bool("places_configured", a.cfg.PlacesConfigured()),
		)
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, then flushes pending spans.
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

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
