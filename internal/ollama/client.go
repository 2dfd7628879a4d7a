// Package ollama contains the HTTP client for the inference service.
// The service is treated as an opaque, possibly-slow, possibly-unavailable
// remote dependency: one attempt per call, fixed timeouts, no retries.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"edgequark/internal/config"
	"edgequark/internal/model"
)

var (
	// ErrUnavailable means the service could not be reached or did not
	// answer within the call budget.
	ErrUnavailable = errors.New("inference service unavailable")
	// ErrBadStatus means the service answered with a non-OK status.
	ErrBadStatus = errors.New("inference service returned an error status")
)

const (
	tagsTimeout = 10 * time.Second
	pingTimeout = 5 * time.Second
)

// Client defines the calls the pipeline makes against the inference service.
type Client interface {
	// Generate submits a prompt plus base64-encoded document images and
	// returns the generated text. Blocks up to the configured timeout.
	Generate(ctx context.Context, prompt string, imagesB64 []string) (string, error)

	// ListModels returns the models the service currently hosts.
	ListModels(ctx context.Context) ([]model.ModelInfo, error)

	// Ping reports whether the service is reachable.
	Ping(ctx context.Context) error
}

// httpClient is the concrete Client backed by the Ollama HTTP API.
// It is safe for concurrent use by multiple goroutines.
type httpClient struct {
	baseURL    string
	model      string
	genTimeout time.Duration
	httpc      *http.Client
}

// NewClient constructs a Client from configuration. Outbound requests are
// traced via otelhttp.
func NewClient(cfg config.OllamaConfig) Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &httpClient{
		baseURL:    baseURL,
		model:      cfg.Model,
		genTimeout: cfg.Timeout(),
		httpc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// generateRequest is the Ollama generate API request body.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

// generateResponse is the Ollama generate API response body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse is the Ollama /api/tags response body.
type tagsResponse struct {
	Models []model.ModelInfo `json:"models"`
}

func (c *httpClient) Generate(ctx context.Context, prompt string, imagesB64 []string) (string, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: imagesB64,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.1,
			TopP:        0.9,
			TopK:        40,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling generate request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.genTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	return genResp.Response, nil
}

func (c *httpClient) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, tagsTimeout)
	defer cancel()

	resp, err := c.getTags(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decoding tags response: %w", err)
	}
	return tags.Models, nil
}

func (c *httpClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp, err := c.getTags(ctx)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}

func (c *httpClient) getTags(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("creating tags request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}
