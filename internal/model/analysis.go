package model

import "time"

// AnalysisResult is the output of one inference call.
// This is a pure domain model with no transport-specific dependencies.
// It is never persisted: it exists only for the request that produced it.
type AnalysisResult struct {
	Success   bool      `json:"success"`
	Analysis  string    `json:"analysis"`
	ModelUsed string    `json:"model_used"`
	Timestamp time.Time `json:"timestamp"`
}

// ModelInfo describes one model available on the inference service,
// mirroring the Ollama /api/tags entry shape.
type ModelInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size,omitempty"`
	Digest     string    `json:"digest,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}
