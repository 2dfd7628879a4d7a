package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edgequark/docs"
	"edgequark/internal/config"
	handlers "edgequark/internal/http/handler"
	"edgequark/internal/http/middleware"
	"edgequark/internal/ollama"
	otelsetup "edgequark/internal/otel"
	"edgequark/internal/service"
)

// @title EdgeQuark Document Analysis API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing; degrades to noop when no collector is configured
	shutdownTracing, err := otelsetup.Init(context.Background(), time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Inference-service client and the analysis pipeline
	aiClient := ollama.NewClient(cfg.Ollama)
	analysisSvc := service.NewAnalysisService(aiClient, cfg)

	app := fiber.New(fiber.Config{
		// Headroom above the upload ceiling for multipart framing; the
		// pipeline enforces the exact per-file limit.
		BodyLimit:    int(cfg.Upload.MaxBytes) + (1 << 20),
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected dependencies
	handlers.RegisterRoutes(app, cfg, aiClient, analysisSvc)

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

	log.Printf("inference service: %s (model %s)", cfg.Ollama.BaseURL, cfg.Ollama.Model)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
