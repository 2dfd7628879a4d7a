package handler

import (
	"github.com/gofiber/fiber/v2"

	"edgequark/internal/config"
	"edgequark/internal/ollama"
	"edgequark/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; the pipeline logic lives in the service layer.
func RegisterRoutes(app *fiber.App, cfg *config.AppConfig, client ollama.Client, svc service.AnalysisService) {
	api := app.Group("/api")
	api.Get("/health", HealthCheck(client, cfg))
	api.Post("/analyze", AnalyzeDocument(svc))
	api.Get("/models", ListModels(client, cfg))

	// Backward-compatible simple liveness probe
	app.Get("/healthz", LivenessProbe())
}
