package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *schemas.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (*schemas.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*schemas.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*schemas.User)
	return user, args.Error(1)
}

func (m *MockUserStore) MarkVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserStore) ClaimEmailSlot(ctx context.Context, id string, now time.Time, minDelay time.Duration) (bool, error) {
	args := m.Called(ctx, id, now, minDelay)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ReleaseEmailSlot(ctx context.Context, id string, claimedAt time.Time, previous *time.Time) error {
	args := m.Called(ctx, id, claimedAt, previous)
	return args.Error(0)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Create(ctx context.Context, token *schemas.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenStore) Consume(ctx context.Context, userID, hash string, purpose schemas.TokenPurpose, now time.Time) (*schemas.Token, error) {
	args := m.Called(ctx, userID, hash, purpose, now)
	token, _ := args.Get(0).(*schemas.Token)
	return token, args.Error(1)
}

func (m *MockTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) Create(ctx context.Context, category *schemas.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) FindByID(ctx context.Context, id string) (*schemas.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*schemas.Category)
	return category, args.Error(1)
}

func (m *MockCategoryStore) FindAll(ctx context.Context) ([]schemas.Category, int64, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]schemas.Category)
	return categories, args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryStore) Update(ctx context.Context, id, title string) (*schemas.Category, error) {
	args := m.Called(ctx, id, title)
	category, _ := args.Get(0).(*schemas.Category)
	return category, args.Error(1)
}

func (m *MockCategoryStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Create(ctx context.Context, product *schemas.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) FindByID(ctx context.Context, id string) (*schemas.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*schemas.Product)
	return product, args.Error(1)
}

func (m *MockProductStore) List(ctx context.Context, query stores.ProductQuery) ([]schemas.Product, int64, error) {
	args := m.Called(ctx, query)
	products, _ := args.Get(0).([]schemas.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductStore) Update(ctx context.Context, id string, update stores.ProductUpdate) (*schemas.Product, error) {
	args := m.Called(ctx, id, update)
	product, _ := args.Get(0).(*schemas.Product)
	return product, args.Error(1)
}

func (m *MockProductStore) Delete(ctx context.Context, id string) (*schemas.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*schemas.Product)
	return product, args.Error(1)
}
