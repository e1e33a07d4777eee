package handler

import (
	"context"

	"sweet-shop/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

// MockSweetService is a mock implementation of SweetService.
type MockSweetService struct {
	mock.Mock
}

func (m *MockSweetService) Create(ctx context.Context, req *model.CreateSweetRequest) (*model.Sweet, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockSweetService) List(ctx context.Context) ([]model.Sweet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Sweet), args.Error(1)
}

func (m *MockSweetService) Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Sweet), args.Error(1)
}

func (m *MockSweetService) Get(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockSweetService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateSweetRequest) (*model.Sweet, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockSweetService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSweetService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockInventoryService is a mock implementation of InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Purchase(ctx context.Context, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockInventoryService) Restock(ctx context.Context, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockInventoryService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockMovement), args.Error(1)
}

func ptr[T any](v T) *T {
	return &v
}
