package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edgequark/internal/config"
	"edgequark/internal/model"
	ollamaMocks "edgequark/internal/ollama/mocks"
	"edgequark/internal/service"
	serviceMocks "edgequark/internal/service/mocks"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Version: "1.0.0",
		Ollama:  config.OllamaConfig{Model: "edgequark"},
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	mockClient := new(ollamaMocks.MockClient)
	app := fiber.New()
	app.Get("/api/health", HealthCheck(mockClient, testConfig()))

	t.Run("healthy", func(t *testing.T) {
		mockClient.On("Ping", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body healthResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "connected", body.Services["ollama"])
		assert.Equal(t, "running", body.Services["api"])
		assert.Equal(t, "1.0.0", body.Version)
		assert.False(t, body.Timestamp.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("unhealthy when inference service is down", func(t *testing.T) {
		mockClient.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body healthResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "disconnected", body.Services["ollama"])
		mockClient.AssertExpectations(t)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/api/analyze", AnalyzeDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		report := &service.AnalysisReport{
			Filename: "doc.png",
			FileType: "image/png",
			Analysis: model.AnalysisResult{
				Success:   true,
				Analysis:  "Fraud risk: LOW",
				ModelUsed: "edgequark",
				Timestamp: time.Now().UTC(),
			},
		}
		mockSvc.On("Analyze", mock.Anything, mock.Anything, "doc.png", mock.Anything).
			Return(report, nil).Once()

		body, contentType := multipartBody(t, "file", "doc.png", []byte("fake png"))
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result analyzeResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)
		assert.Equal(t, "doc.png", result.Filename)
		assert.Equal(t, "image/png", result.FileType)
		assert.True(t, result.Analysis.Success)
		assert.Equal(t, "Fraud risk: LOW", result.Analysis.Analysis)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file part", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NO_FILE", res.Code)
		assert.False(t, res.Success)
	})

	t.Run("validation errors map to codes", func(t *testing.T) {
		cases := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"empty filename", service.ErrEmptyFilename, http.StatusBadRequest, "EMPTY_FILENAME"},
			{"invalid type", service.ErrInvalidType, http.StatusBadRequest, "INVALID_TYPE"},
			{"too large", service.ErrTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
			{"unsupported format", service.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
			{"service unavailable", service.ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_ERROR"},
			{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockSvc.On("Analyze", mock.Anything, mock.Anything, "doc.png", mock.Anything).
					Return(nil, tc.err).Once()

				body, contentType := multipartBody(t, "file", "doc.png", []byte("content"))
				req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
				req.Header.Set("Content-Type", contentType)
				resp, _ := app.Test(req)

				assert.Equal(t, tc.wantStatus, resp.StatusCode)
				var res errorResponse
				json.NewDecoder(resp.Body).Decode(&res)
				assert.Equal(t, tc.wantCode, res.Code)
				assert.False(t, res.Success)
			})
		}
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid type lists allowed extensions", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything, "virus.exe", mock.Anything).
			Return(nil, service.ErrInvalidType).Once()

		body, contentType := multipartBody(t, "file", "virus.exe", []byte("MZ"))
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_TYPE", res.Code)
		assert.Equal(t, service.AllowedExtensions(), res.AllowedTypes)
		mockSvc.AssertExpectations(t)
	})

	t.Run("internal error leaks no detail", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything, "doc.png", mock.Anything).
			Return(nil, errors.New("tmpdir permission denied: /var/secret")).Once()

		body, contentType := multipartBody(t, "file", "doc.png", []byte("content"))
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "Internal server error", res.Error)
		assert.Empty(t, res.Details)
		mockSvc.AssertExpectations(t)
	})
}

func TestListModels(t *testing.T) {
	mockClient := new(ollamaMocks.MockClient)
	app := fiber.New()
	app.Get("/api/models", ListModels(mockClient, testConfig()))

	t.Run("success", func(t *testing.T) {
		models := []model.ModelInfo{{Name: "edgequark:latest"}, {Name: "llama3.2:latest"}}
		mockClient.On("ListModels", mock.Anything).Return(models, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result modelsResponse
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)
		assert.Len(t, result.Models, 2)
		assert.Equal(t, "edgequark", result.CurrentModel)
		mockClient.AssertExpectations(t)
	})

	t.Run("empty list stays a list", func(t *testing.T) {
		mockClient.On("ListModels", mock.Anything).Return([]model.ModelInfo(nil), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Contains(t, buf.String(), `"models":[]`)
		mockClient.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		mockClient.On("ListModels", mock.Anything).Return(nil, errors.New("connection refused")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var res errorResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "SERVICE_ERROR", res.Code)
		mockClient.AssertExpectations(t)
	})
}

func TestErrorHandlerBodyLimit(t *testing.T) {
	app := fiber.New(fiber.Config{
		BodyLimit:    64,
		ErrorHandler: ErrorHandler(),
	})
	mockSvc := new(serviceMocks.MockAnalysisService)
	app.Post("/api/analyze", AnalyzeDocument(mockSvc))

	body, contentType := multipartBody(t, "file", "doc.png", bytes.Repeat([]byte{0x01}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var res errorResponse
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "FILE_TOO_LARGE", res.Code)
	mockSvc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
