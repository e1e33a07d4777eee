package repository

import (
	"context"

	"sweet-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns nil, nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateRole changes the role of an existing user.
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
}

// SweetRepository defines the interface for sweet data access operations.
type SweetRepository interface {
	// Create inserts a new sweet and fills in its timestamps.
	Create(ctx context.Context, sweet *model.Sweet) error

	// List retrieves all sweets, most recently created first.
	List(ctx context.Context) ([]model.Sweet, error)

	// Search retrieves the sweets matching every criterion set in filter,
	// in the same order as List.
	Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error)

	// GetByID retrieves a single sweet. Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error)

	// Update applies the supplied fields of req in a single statement.
	// Returns nil, nil when the sweet does not exist.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateSweetRequest) (*model.Sweet, error)

	// Delete removes a sweet. Reports false when it did not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Count returns the number of sweets in the catalogue.
	Count(ctx context.Context) (int, error)

	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// DecrementStock subtracts quantity only if at least that much is in
	// stock. Returns nil, nil when no row matched, either because the sweet
	// is absent or its stock is too low.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (*model.Sweet, error)

	// IncrementStock adds quantity. Returns nil, nil when the sweet is absent.
	IncrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (*model.Sweet, error)

	// Exists reports whether the sweet exists, as seen by tx.
	Exists(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// MovementRepository defines the interface for the stock movement ledger.
type MovementRepository interface {
	// Record inserts a movement within the provided transaction.
	Record(ctx context.Context, tx pgx.Tx, movement *model.StockMovement) error

	// ListBySweet retrieves the newest movements of a sweet.
	ListBySweet(ctx context.Context, sweetID uuid.UUID, limit int) ([]model.StockMovement, error)
}
