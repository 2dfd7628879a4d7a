package config

import (
	"os"
	"strconv"
	"time"
)

// OllamaConfig holds connection settings for the inference service.
type OllamaConfig struct {
	BaseURL    string
	Model      string
	TimeoutSec int
}

// Timeout returns the generate-call budget as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// UploadConfig holds settings for transient upload handling.
type UploadConfig struct {
	// Dir is where request-scoped temp files are written. A temp file
	// never outlives the request that created it.
	Dir      string
	MaxBytes int64
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at process start and
// passed by reference; there are no ambient configuration globals.
type AppConfig struct {
	AppHost string
	Port    string
	Version string
	Ollama  OllamaConfig
	Upload  UploadConfig
}

// MaxUploadBytes is the default declared-size ceiling for uploads (16 MiB).
const MaxUploadBytes int64 = 16 << 20

// appVersion is reported by the health endpoint.
const appVersion = "1.0.0"

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Version: appVersion,
		Ollama: OllamaConfig{
			BaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:      getEnv("OLLAMA_MODEL", "edgequark"),
			TimeoutSec: getEnvInt("OLLAMA_TIMEOUT_SEC", 120),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", os.TempDir()),
			MaxBytes: getEnvInt64("MAX_UPLOAD_BYTES", MaxUploadBytes),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
