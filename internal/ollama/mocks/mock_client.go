package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"edgequark/internal/model"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Generate(ctx context.Context, prompt string, imagesB64 []string) (string, error) {
	args := m.Called(ctx, prompt, imagesB64)
	return args.String(0), args.Error(1)
}

func (m *MockClient) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ModelInfo), args.Error(1)
}

func (m *MockClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
