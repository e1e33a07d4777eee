package repository

import (
	"context"
	"fmt"

	"sweet-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// movementRepository implements the MovementRepository interface using PostgreSQL.
type movementRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMovementRepository creates a new PostgreSQL-backed stock movement repository.
func NewMovementRepository(pool *pgxpool.Pool, logger zerolog.Logger) MovementRepository {
	return &movementRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "movement").Logger(),
	}
}

// Record inserts a movement within the provided transaction.
func (r *movementRepository) Record(ctx context.Context, tx pgx.Tx, m *model.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, sweet_id, kind, quantity, quantity_after, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query, m.ID, m.SweetID, m.Kind, m.Quantity, m.QuantityAfter, m.UserID).
		Scan(&m.CreatedAt)
	if err != nil {
		// The actor's account was removed after its token was issued.
		if pgErrorCode(err) == pgForeignKeyViolation && m.UserID != nil {
			r.logger.Warn().
				Str("user_id", m.UserID.String()).
				Str("sweet_id", m.SweetID.String()).
				Msg("stock movement actor no longer exists")
			return model.ErrUnauthenticated
		}
		r.logger.Error().
			Err(err).
			Str("sweet_id", m.SweetID.String()).
			Str("kind", string(m.Kind)).
			Msg("failed to record stock movement")
		return fmt.Errorf("failed to record stock movement: %w", err)
	}

	r.logger.Debug().
		Str("movement_id", m.ID.String()).
		Str("sweet_id", m.SweetID.String()).
		Str("kind", string(m.Kind)).
		Msg("stock movement recorded")

	return nil
}

// ListBySweet retrieves the newest movements of a sweet.
func (r *movementRepository) ListBySweet(ctx context.Context, sweetID uuid.UUID, limit int) ([]model.StockMovement, error) {
	query := `
		SELECT id, sweet_id, kind, quantity, quantity_after, user_id, created_at
		FROM stock_movements
		WHERE sweet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, sweetID, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("sweet_id", sweetID.String()).Msg("failed to query stock movements")
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	movements := make([]model.StockMovement, 0)
	for rows.Next() {
		var m model.StockMovement
		err := rows.Scan(&m.ID, &m.SweetID, &m.Kind, &m.Quantity, &m.QuantityAfter, &m.UserID, &m.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan stock movement row")
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating stock movement rows")
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}

	return movements, nil
}
