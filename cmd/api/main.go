package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lendflow/docs"
	"lendflow/internal/auth"
	"lendflow/internal/config"
	handlers "lendflow/internal/http/handler"
	"lendflow/internal/http/middleware"
	"lendflow/internal/logging"
	"lendflow/internal/otel"
	"lendflow/internal/service"
	"lendflow/internal/toast"
)

const (
	bodyLimit       = 12 << 20
	shutdownTimeout = 10 * time.Second
)

// @title LendFlow API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	ds, err := openDataSource(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open data source")
	}
	defer ds.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if ds.db != nil {
		reg.MustRegister(collectors.NewDBStatsCollector(ds.db, cfg.Database.Name))
	}
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register service metrics")
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize token issuer")
	}

	toasts := toast.NewQueue(0)
	defer toasts.Close()

	svcs := service.New(service.Deps{
		Repos:         ds.repos,
		Storage:       ds.objects,
		Tokens:        tokens,
		Toasts:        toasts,
		Metrics:       metrics,
		Log:           log,
		BcryptCost:    cfg.Auth.BcryptCost,
		PresignExpiry: cfg.MinIO.PresignExpiry,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	deps := handlers.Deps{
		Services:     svcs,
		Tokens:       tokens,
		Toasts:       toasts,
		LoginLimiter: middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst),
	}
	if ds.db != nil {
		deps.DB = ds.db
	}
	handlers.RegisterRoutes(app, deps)

	if ds.links != nil {
		app.Get("/objects", handlers.ObjectFile(ds.links, nil))
	}
	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.WithField("addr", addr).WithField("data_source", cfg.DataSource).Info("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("server stopped")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
		}
	}
}
