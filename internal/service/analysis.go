package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"edgequark/internal/config"
	"edgequark/internal/model"
	"edgequark/internal/ollama"
)

var (
	ErrReaderNil          = errors.New("reader is nil")
	ErrEmptyFilename      = errors.New("empty filename")
	ErrInvalidType        = errors.New("file extension is not allowed")
	ErrTooLarge           = errors.New("file exceeds maximum size")
	ErrUnsupportedFormat  = errors.New("file content is not an image or PDF")
	ErrServiceUnavailable = errors.New("analysis service unavailable")
)

// allowedExtensions is the set of accepted upload extensions (lowercase,
// without the dot).
var allowedExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "bmp": {}, "tiff": {}, "pdf": {},
}

// AllowedExtensions returns the accepted extensions in sorted order,
// for use in error details.
func AllowedExtensions() []string {
	out := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// AnalysisReport is the service-level result of one document analysis.
type AnalysisReport struct {
	Filename string               `json:"filename"`
	FileType string               `json:"file_type"`
	Analysis model.AnalysisResult `json:"analysis"`
}

// AnalysisService defines the document-submission pipeline:
// validate, persist transiently, call inference, clean up.
type AnalysisService interface {
	// Analyze validates the uploaded content and submits it to the
	// inference service. declaredSize is the size announced by the client.
	// Validation failures are reported via the exported sentinel errors.
	Analyze(ctx context.Context, r io.Reader, filename string, declaredSize int64) (*AnalysisReport, error)
}

// analysisService is a concrete implementation of AnalysisService.
type analysisService struct {
	client    ollama.Client
	modelName string
	uploadDir string
	maxBytes  int64
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(client ollama.Client, cfg *config.AppConfig) AnalysisService {
	return &analysisService{
		client:    client,
		modelName: cfg.Ollama.Model,
		uploadDir: cfg.Upload.Dir,
		maxBytes:  cfg.Upload.MaxBytes,
	}
}

func (s *analysisService) Analyze(ctx context.Context, r io.Reader, filename string, declaredSize int64) (*AnalysisReport, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	// Fail-fast validation, first violation wins.
	name := sanitizeFilename(filename)
	if name == "" {
		return nil, ErrEmptyFilename
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrInvalidType
	}
	if declaredSize > s.maxBytes {
		return nil, ErrTooLarge
	}

	// Persist to a randomized temp location; the client filename is never
	// used on disk. The file is removed on every exit path.
	tmpPath := filepath.Join(s.uploadDir, uuid.New().String()+"."+ext)
	if err := s.saveTemp(tmpPath, r); err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	fileType, err := detectFileType(tmpPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read temp file: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	text, err := s.client.Generate(ctx, fraudAnalysisPrompt, []string{encoded})
	if err != nil {
		if errors.Is(err, ollama.ErrUnavailable) || errors.Is(err, ollama.ErrBadStatus) {
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return nil, fmt.Errorf("generate: %w", err)
	}

	return &AnalysisReport{
		Filename: name,
		FileType: fileType,
		Analysis: model.AnalysisResult{
			Success:   true,
			Analysis:  text,
			ModelUsed: s.modelName,
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

// saveTemp streams the upload to tmpPath, enforcing the size ceiling on the
// actual bytes as well as the declared size checked earlier.
func (s *analysisService) saveTemp(tmpPath string, r io.Reader) error {
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(tmpPath)
		return ErrTooLarge
	}
	return nil
}

// detectFileType sniffs the saved file's content type and rejects anything
// that is not an image or a PDF, regardless of extension.
func detectFileType(tmpPath string) (string, error) {
	mt, err := mimetype.DetectFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") && !mt.Is("application/pdf") {
		return "", ErrUnsupportedFormat
	}
	return mt.String(), nil
}

// sanitizeFilename strips any path components from the client-declared
// filename. The result is used only for reporting, never on disk.
func sanitizeFilename(filename string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = path.Base(name)
	name = strings.TrimSpace(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
