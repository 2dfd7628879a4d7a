package handler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"edgequark/internal/config"
	"edgequark/internal/model"
	"edgequark/internal/ollama"
	"edgequark/internal/service"
)

// analyzeResponse is the success body of POST /api/analyze.
type analyzeResponse struct {
	Success  bool                 `json:"success"`
	Filename string               `json:"filename"`
	FileType string               `json:"file_type"`
	Analysis model.AnalysisResult `json:"analysis"`
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
}

// modelsResponse is the success body of GET /api/models.
type modelsResponse struct {
	Success      bool              `json:"success"`
	Models       []model.ModelInfo `json:"models"`
	CurrentModel string            `json:"current_model"`
}

// AnalyzeDocument handles document submission.
//
// @Summary Analyze an uploaded document for fraud indicators
// @Accept mpfd
// @Produce json
// @Param file formData file true "document to analyze"
// @Success 200 {object} analyzeResponse
// @Failure 400 {object} errorResponse
// @Failure 413 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /api/analyze [post]
func AnalyzeDocument(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "NO_FILE", "No file provided")
		}

		f, err := fh.Open()
		if err != nil {
			log.Printf("open uploaded file: %v", err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		defer f.Close()

		report, err := svc.Analyze(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return analysisError(c, err)
		}

		return c.JSON(analyzeResponse{
			Success:  true,
			Filename: report.Filename,
			FileType: report.FileType,
			Analysis: report.Analysis,
		})
	}
}

// analysisError translates pipeline sentinel errors into the error taxonomy:
// client-input errors carry a descriptive code, dependency and internal
// failures surface generically with details kept in the logs.
func analysisError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyFilename):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_FILENAME", "Empty filename")
	case errors.Is(err, service.ErrInvalidType):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:        "Invalid file type",
			Code:         "INVALID_TYPE",
			AllowedTypes: service.AllowedExtensions(),
		})
	case errors.Is(err, service.ErrTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File too large (max 16MB)")
	case errors.Is(err, service.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "Unsupported file format")
	case errors.Is(err, service.ErrServiceUnavailable):
		log.Printf("inference service error: %v", err)
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_ERROR", "Cannot connect to EdgeQuark AI service")
	default:
		log.Printf("analysis error: %v", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// HealthCheck reports liveness plus inference-service reachability.
// Any unreachable dependency makes the overall status unhealthy.
//
// @Summary Health check
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /api/health [get]
func HealthCheck(client ollama.Client, cfg *config.AppConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		res := healthResponse{
			Status: "healthy",
			Services: map[string]string{
				"ollama": "connected",
				"api":    "running",
			},
			Version:   cfg.Version,
			Timestamp: time.Now().UTC(),
		}

		if err := client.Ping(ctx); err != nil {
			log.Printf("health check: %v", err)
			res.Status = "unhealthy"
			res.Services["ollama"] = "disconnected"
			return c.Status(fiber.StatusServiceUnavailable).JSON(res)
		}
		return c.JSON(res)
	}
}

// ListModels relays the inference service's model list.
//
// @Summary List available models
// @Produce json
// @Success 200 {object} modelsResponse
// @Failure 503 {object} errorResponse
// @Router /api/models [get]
func ListModels(client ollama.Client, cfg *config.AppConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		models, err := client.ListModels(c.UserContext())
		if err != nil {
			log.Printf("list models: %v", err)
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_ERROR", "Service unavailable")
		}
		if models == nil {
			models = []model.ModelInfo{}
		}
		return c.JSON(modelsResponse{
			Success:      true,
			Models:       models,
			CurrentModel: cfg.Ollama.Model,
		})
	}
}

// LivenessProbe is a bare liveness endpoint for process supervisors.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
