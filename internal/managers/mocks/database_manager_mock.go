package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gadget-server/internal/stores"
)

// MockDatabaseManager hands out the mock stores it holds.
// ValidID and Ping go through testify so tests can steer them.
type MockDatabaseManager struct {
	mock.Mock
	UserStore     *MockUserStore
	TokenStore    *MockTokenStore
	CategoryStore *MockCategoryStore
	ProductStore  *MockProductStore
}

func NewMockDatabaseManager() *MockDatabaseManager {
	return &MockDatabaseManager{
		UserStore:     &MockUserStore{},
		TokenStore:    &MockTokenStore{},
		CategoryStore: &MockCategoryStore{},
		ProductStore:  &MockProductStore{},
	}
}

func (m *MockDatabaseManager) Users() stores.UserStore { return m.UserStore }
func (m *MockDatabaseManager) Tokens() stores.TokenStore { return m.TokenStore }
func (m *MockDatabaseManager) Categories() stores.CategoryStore { return m.CategoryStore }
func (m *MockDatabaseManager) Products() stores.ProductStore { return m.ProductStore }

func (m *MockDatabaseManager) ValidID(id string) bool {
	args := m.Called(id)
	return args.Bool(0)
}

func (m *MockDatabaseManager) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatabaseManager) Close() {
	m.Called()
}
