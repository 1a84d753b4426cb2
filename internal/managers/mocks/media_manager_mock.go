package mocks

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"

	"gadget-server/internal/schemas"
)

type MockMediaManager struct {
	mock.Mock
}

func (m *MockMediaManager) Upload(ctx context.Context, files []*multipart.FileHeader) ([]schemas.Image, error) {
	args := m.Called(ctx, files)
	images, _ := args.Get(0).([]schemas.Image)
	return images, args.Error(1)
}

func (m *MockMediaManager) Destroy(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}
