package service

import (
	"context"
	"fmt"
	"strings"

	"sweet-shop/internal/model"
	"sweet-shop/internal/repository"
	"sweet-shop/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sweetService implements SweetService.
type sweetService struct {
	repo      repository.SweetRepository
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewSweetService creates a new sweet service.
func NewSweetService(repo repository.SweetRepository, logger zerolog.Logger) SweetService {
	return &sweetService{
		repo:      repo,
		validator: validation.New(),
		logger:    logger.With().Str("service", "sweet").Logger(),
	}
}

// Create validates and stores a new sweet.
func (s *sweetService) Create(ctx context.Context, req *model.CreateSweetRequest) (*model.Sweet, error) {
	if err := validateCreateSweet(s.validator, req); err != nil {
		return nil, err
	}

	sweet := &model.Sweet{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    roundPrice(*req.Price),
		Quantity: *req.Quantity,
		ImageURL: trimmed(req.ImageURL),
	}

	if err := s.repo.Create(ctx, sweet); err != nil {
		return nil, fmt.Errorf("failed to create sweet: %w", err)
	}

	s.logger.Info().
		Str("sweet_id", sweet.ID.String()).
		Str("name", sweet.Name).
		Int("quantity", sweet.Quantity).
		Msg("sweet created")

	return sweet, nil
}

// List retrieves every sweet, most recently created first.
func (s *sweetService) List(ctx context.Context) ([]model.Sweet, error) {
	sweets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	return sweets, nil
}

// Search retrieves the sweets matching every supplied criterion. Blank
// text criteria are ignored, and a search with no criteria is a List.
func (s *sweetService) Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	if err := validateFilter(s.validator, filter); err != nil {
		return nil, err
	}

	filter.Name = nonBlank(filter.Name)
	filter.Category = nonBlank(filter.Category)
	if filter.Empty() {
		return s.List(ctx)
	}

	sweets, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}

	s.logger.Debug().Int("count", len(sweets)).Msg("sweets searched")
	return sweets, nil
}

// Get retrieves a sweet by ID.
func (s *sweetService) Get(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	sweet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sweet: %w", err)
	}
	if sweet == nil {
		return nil, model.ErrSweetNotFound
	}
	return sweet, nil
}

// Update merges the supplied fields into the stored sweet. An update with no
// fields returns the stored sweet unchanged.
func (s *sweetService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateSweetRequest) (*model.Sweet, error) {
	if err := validateUpdateSweet(s.validator, req); err != nil {
		return nil, err
	}

	changes := &model.UpdateSweetRequest{
		Name:     trimmed(req.Name),
		Category: trimmed(req.Category),
		Quantity: req.Quantity,
		ImageURL: trimmed(req.ImageURL),
	}
	if req.Price != nil {
		price := roundPrice(*req.Price)
		changes.Price = &price
	}
	if changes.Empty() {
		return s.Get(ctx, id)
	}

	sweet, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update sweet: %w", err)
	}
	if sweet == nil {
		return nil, model.ErrSweetNotFound
	}

	s.logger.Info().Str("sweet_id", id.String()).Msg("sweet updated")
	return sweet, nil
}

// Delete removes a sweet.
func (s *sweetService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sweet: %w", err)
	}
	if !deleted {
		return model.ErrSweetNotFound
	}

	s.logger.Info().Str("sweet_id", id.String()).Msg("sweet deleted")
	return nil
}

// Count returns the number of sweets in the catalogue.
func (s *sweetService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sweets: %w", err)
	}
	return n, nil
}

func nonBlank(s *string) *string {
	t := trimmed(s)
	if t == nil || *t == "" {
		return nil
	}
	return t
}
