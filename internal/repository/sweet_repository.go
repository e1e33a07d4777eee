package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sweet-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const sweetColumns = `id, name, category, price, quantity, image_url, created_at, updated_at`

// likeEscaper escapes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sweetRepository implements the SweetRepository interface using PostgreSQL.
type sweetRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSweetRepository creates a new PostgreSQL-backed sweet repository.
func NewSweetRepository(pool *pgxpool.Pool, logger zerolog.Logger) SweetRepository {
	return &sweetRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "sweet").Logger(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweet(row rowScanner) (*model.Sweet, error) {
	var s model.Sweet
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Category,
		&s.Price,
		&s.Quantity,
		&s.ImageURL,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new sweet and fills in its timestamps.
func (r *sweetRepository) Create(ctx context.Context, sweet *model.Sweet) error {
	query := `
		INSERT INTO sweets (id, name, category, price, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity, sweet.ImageURL,
	).Scan(&sweet.CreatedAt, &sweet.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("sweet_id", sweet.ID.String()).Msg("failed to create sweet")
		return fmt.Errorf("failed to create sweet: %w", err)
	}

	r.logger.Debug().Str("sweet_id", sweet.ID.String()).Msg("sweet created")
	return nil
}

// List retrieves all sweets, most recently created first.
func (r *sweetRepository) List(ctx context.Context) ([]model.Sweet, error) {
	return r.Search(ctx, model.SweetFilter{})
}

// Search retrieves the sweets matching every criterion set in filter.
func (r *sweetRepository) Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Name != nil {
		args = append(args, "%"+likeEscaper.Replace(*filter.Name)+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := "SELECT " + sweetColumns + " FROM sweets"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Int("criteria", len(conditions)).Msg("failed to query sweets")
		return nil, fmt.Errorf("failed to query sweets: %w", err)
	}
	defer rows.Close()

	sweets := make([]model.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan sweet row")
			return nil, fmt.Errorf("failed to scan sweet: %w", err)
		}
		sweets = append(sweets, *s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating sweet rows")
		return nil, fmt.Errorf("error iterating sweets: %w", err)
	}

	return sweets, nil
}

// GetByID retrieves a single sweet by its ID.
func (r *sweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	query := "SELECT " + sweetColumns + " FROM sweets WHERE id = $1"

	s, err := scanSweet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("sweet_id", id.String()).Msg("sweet not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("sweet_id", id.String()).Msg("failed to query sweet")
		return nil, fmt.Errorf("failed to query sweet: %w", err)
	}

	return s, nil
}

// Update applies the supplied fields of req. Unsupplied fields are bound as
// NULL and COALESCE keeps the stored value, so the merge happens in one
// statement against the current row rather than a previously read copy.
func (r *sweetRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateSweetRequest) (*model.Sweet, error) {
	query := `
		UPDATE sweets SET
			name       = COALESCE($2, name),
			category   = COALESCE($3, category),
			price      = COALESCE($4, price),
			quantity   = COALESCE($5, quantity),
			image_url  = COALESCE($6, image_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sweetColumns

	s, err := scanSweet(r.pool.QueryRow(ctx, query, id, req.Name, req.Category, req.Price, req.Quantity, req.ImageURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("sweet_id", id.String()).Msg("failed to update sweet")
		return nil, fmt.Errorf("failed to update sweet: %w", err)
	}

	return s, nil
}

// Delete removes a sweet.
func (r *sweetRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sweets WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("sweet_id", id.String()).Msg("failed to delete sweet")
		return false, fmt.Errorf("failed to delete sweet: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Count returns the number of sweets in the catalogue.
func (r *sweetRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sweets").Scan(&n); err != nil {
		r.logger.Error().Err(err).Msg("failed to count sweets")
		return 0, fmt.Errorf("failed to count sweets: %w", err)
	}
	return n, nil
}

// BeginTx starts a new database transaction.
func (r *sweetRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// DecrementStock subtracts quantity only while enough stock remains. The
// row lock taken by the UPDATE serialises concurrent purchases of the same
// sweet, and each one re-evaluates the predicate against the committed value.
func (r *sweetRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (*model.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + sweetColumns

	s, err := scanSweet(tx.QueryRow(ctx, query, id, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if pgErrorCode(err) == pgCheckViolation {
			return nil, model.ErrInsufficientStock
		}
		r.logger.Error().Err(err).Str("sweet_id", id.String()).Int("quantity", quantity).Msg("failed to decrement stock")
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return s, nil
}

// IncrementStock adds quantity to a sweet's stock.
func (r *sweetRepository) IncrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (*model.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sweetColumns

	s, err := scanSweet(tx.QueryRow(ctx, query, id, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if pgErrorCode(err) == pgNumericOverflow {
			return nil, model.NewValidationError("quantity", "quantity would exceed the maximum stock level")
		}
		r.logger.Error().Err(err).Str("sweet_id", id.String()).Int("quantity", quantity).Msg("failed to increment stock")
		return nil, fmt.Errorf("failed to increment stock: %w", err)
	}

	return s, nil
}

// Exists reports whether the sweet exists, as seen by tx.
func (r *sweetRepository) Exists(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM sweets WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("sweet_id", id.String()).Msg("failed to check sweet existence")
		return false, fmt.Errorf("failed to check sweet existence: %w", err)
	}
	return exists, nil
}
