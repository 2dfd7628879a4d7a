package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origURL := os.Getenv("OLLAMA_BASE_URL")
	defer os.Setenv("OLLAMA_BASE_URL", origURL)

	os.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")
	os.Setenv("OLLAMA_TIMEOUT_SEC", "30")
	os.Setenv("MAX_UPLOAD_BYTES", "1024")
	defer os.Unsetenv("OLLAMA_TIMEOUT_SEC")
	defer os.Unsetenv("MAX_UPLOAD_BYTES")

	cfg := Load()

	assert.Equal(t, "http://ollama:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 30, cfg.Ollama.TimeoutSec)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("OLLAMA_BASE_URL")
	os.Unsetenv("OLLAMA_MODEL")
	os.Unsetenv("OLLAMA_TIMEOUT_SEC")
	os.Unsetenv("MAX_UPLOAD_BYTES")

	cfg := Load()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "edgequark", cfg.Ollama.Model)
	assert.Equal(t, 120, cfg.Ollama.TimeoutSec)
	assert.Equal(t, MaxUploadBytes, cfg.Upload.MaxBytes)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	os.Setenv(key, "16777216")
	assert.Equal(t, int64(16777216), getEnvInt64(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, int64(7), getEnvInt64(key, 7))

	os.Unsetenv(key)
	assert.Equal(t, int64(7), getEnvInt64(key, 7))
}
