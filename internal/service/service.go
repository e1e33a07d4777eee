package service

import (
	"context"

	"sweet-shop/internal/model"
	"sweet-shop/internal/token"

	"github.com/google/uuid"
)

// AuthService defines operations for account registration and login.
type AuthService interface {
	// Register creates a user account and returns it with a fresh token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login checks credentials and returns the user with a fresh token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// EnsureAdmin makes sure an admin account exists for email.
	EnsureAdmin(ctx context.Context, email, password string) error
}

// SweetService defines operations for catalogue management.
type SweetService interface {
	Create(ctx context.Context, req *model.CreateSweetRequest) (*model.Sweet, error)
	List(ctx context.Context) ([]model.Sweet, error)
	Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Sweet, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateSweetRequest) (*model.Sweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// InventoryService defines the stock mutating operations.
type InventoryService interface {
	// Purchase removes quantity units from stock. It never lets stock go negative.
	Purchase(ctx context.Context, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error)

	// Restock adds quantity units to stock.
	Restock(ctx context.Context, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error)

	// Movements returns the newest stock movements of a sweet.
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, claims token.Claims) (string, error)
}
