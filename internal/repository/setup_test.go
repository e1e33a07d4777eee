package repository

import (
	"context"
	"testing"
	"time"

	"sweet-shop/internal/database"
	"sweet-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedSweets inserts sweets with explicit creation times so ordering is deterministic.
func seedSweets(t *testing.T, pool *pgxpool.Pool, sweets []model.Sweet) {
	t.Helper()

	query := `
		INSERT INTO sweets (id, name, category, price, quantity, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	for _, s := range sweets {
		_, err := pool.Exec(context.Background(), query, s.ID, s.Name, s.Category, s.Price, s.Quantity, s.ImageURL, s.CreatedAt)
		require.NoError(t, err)
	}
}

// catalogue returns a fixed set of sweets created one minute apart, oldest first.
func catalogue() []model.Sweet {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	names := []struct {
		name     string
		category string
		price    float64
		quantity int
	}{
		{"Gummy Bears", "Gummies", 1.50, 10},
		{"Dark Chocolate Truffle", "Chocolate", 3.25, 5},
		{"Sour Gummy Worms", "Gummies", 2.00, 0},
		{"Milk Chocolate Bar", "Chocolate", 2.50, 20},
		{"100% Cocoa_Nibs", "Chocolate", 6.00, 3},
	}

	sweets := make([]model.Sweet, len(names))
	for i, n := range names {
		sweets[i] = model.Sweet{
			ID:        uuid.New(),
			Name:      n.name,
			Category:  n.category,
			Price:     n.price,
			Quantity:  n.quantity,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return sweets
}
