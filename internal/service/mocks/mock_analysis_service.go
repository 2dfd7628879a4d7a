package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"edgequark/internal/service"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, r io.Reader, filename string, declaredSize int64) (*service.AnalysisReport, error) {
	args := m.Called(ctx, r, filename, declaredSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisReport), args.Error(1)
}
