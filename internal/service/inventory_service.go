package service

import (
	"context"
	"errors"
	"fmt"

	"sweet-shop/internal/metrics"
	"sweet-shop/internal/model"
	"sweet-shop/internal/repository"
	"sweet-shop/internal/token"
	"sweet-shop/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 200
)

// inventoryService implements InventoryService.
type inventoryService struct {
	sweetRepo    repository.SweetRepository
	movementRepo repository.MovementRepository
	validator    *validation.Validator
	logger       zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	sweetRepo repository.SweetRepository,
	movementRepo repository.MovementRepository,
	logger zerolog.Logger,
) InventoryService {
	return &inventoryService{
		sweetRepo:    sweetRepo,
		movementRepo: movementRepo,
		validator:    validation.New(),
		logger:       logger.With().Str("service", "inventory").Logger(),
	}
}

// Purchase removes quantity units from stock.
func (s *inventoryService) Purchase(ctx context.Context, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error) {
	return s.apply(ctx, model.MovementPurchase, id, req)
}

// Restock adds quantity units to stock.
func (s *inventoryService) Restock(ctx context.Context, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error) {
	return s.apply(ctx, model.MovementRestock, id, req)
}

// Movements returns the newest stock movements of a sweet. A non-positive
// limit selects the default and large limits are capped.
func (s *inventoryService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if limit > maxMovementLimit {
		limit = maxMovementLimit
	}

	sweet, err := s.sweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sweet: %w", err)
	}
	if sweet == nil {
		return nil, model.ErrSweetNotFound
	}

	movements, err := s.movementRepo.ListBySweet(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

func (s *inventoryService) apply(ctx context.Context, kind model.MovementKind, id uuid.UUID, req *model.StockRequest) (*model.Sweet, error) {
	if err := validateStock(s.validator, req); err != nil {
		metrics.InventoryOperationsTotal.WithLabelValues(string(kind), metrics.ResultInvalid).Inc()
		return nil, err
	}

	quantity := *req.Quantity
	sweet, err := s.adjust(ctx, kind, id, quantity)

	metrics.InventoryOperationsTotal.WithLabelValues(string(kind), operationResult(err)).Inc()
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("operation", string(kind)).
			Str("sweet_id", id.String()).
			Int("quantity", quantity).
			Msg("stock operation rejected")
		return nil, err
	}
	metrics.InventoryUnitsTotal.WithLabelValues(string(kind)).Add(float64(quantity))

	s.logger.Info().
		Str("operation", string(kind)).
		Str("sweet_id", id.String()).
		Int("quantity", quantity).
		Int("quantity_after", sweet.Quantity).
		Msg("stock updated")

	return sweet, nil
}

// adjust performs the conditional stock update and records the movement in
// one transaction.
func (s *inventoryService) adjust(ctx context.Context, kind model.MovementKind, id uuid.UUID, quantity int) (sweet *model.Sweet, err error) {
	tx, err := s.sweetRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	switch kind {
	case model.MovementPurchase:
		sweet, err = s.sweetRepo.DecrementStock(ctx, tx, id, quantity)
		if err != nil {
			if errors.Is(err, model.ErrInsufficientStock) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		if sweet == nil {
			// No row matched: either the sweet is gone or its stock is too low.
			exists, existsErr := s.sweetRepo.Exists(ctx, tx, id)
			if existsErr != nil {
				return nil, fmt.Errorf("failed to check sweet: %w", existsErr)
			}
			if !exists {
				return nil, model.ErrSweetNotFound
			}
			return nil, model.ErrInsufficientStock
		}
	case model.MovementRestock:
		sweet, err = s.sweetRepo.IncrementStock(ctx, tx, id, quantity)
		if err != nil {
			if errors.Is(err, model.ErrValidation) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to increment stock: %w", err)
		}
		if sweet == nil {
			return nil, model.ErrSweetNotFound
		}
	default:
		return nil, fmt.Errorf("unknown stock operation %q", kind)
	}

	movement := &model.StockMovement{
		ID:            uuid.New(),
		SweetID:       id,
		Kind:          kind,
		Quantity:      quantity,
		QuantityAfter: sweet.Quantity,
		UserID:        actor(ctx),
	}
	if err = s.movementRepo.Record(ctx, tx, movement); err != nil {
		if errors.Is(err, model.ErrUnauthenticated) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("sweet_id", id.String()).Msg("failed to record movement")
		return nil, fmt.Errorf("failed to record movement: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("sweet_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to commit stock update: %w", err)
	}

	return sweet, nil
}

// actor returns the authenticated user's ID, if any.
func actor(ctx context.Context) *uuid.UUID {
	payload, ok := token.FromContext(ctx)
	if !ok {
		return nil
	}
	id := payload.UserID
	return &id
}

func operationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, model.ErrValidation):
		return metrics.ResultInvalid
	case errors.Is(err, model.ErrSweetNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, model.ErrInsufficientStock):
		return metrics.ResultInsufficientStock
	default:
		return metrics.ResultError
	}
}
