package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendVerificationMail(ctx context.Context, email, name, link string) error {
	args := m.Called(ctx, email, name, link)
	return args.Error(0)
}

func (m *MockMailManager) SendPasswordResetMail(ctx context.Context, email, name, link string) error {
	args := m.Called(ctx, email, name, link)
	return args.Error(0)
}

func (m *MockMailManager) SendConfirmationMail(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}
