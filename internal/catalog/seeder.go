package catalog

import (
	"context"
	"errors"
	"fmt"

	"sweet-shop/internal/model"

	"github.com/rs/zerolog"
)

// Catalogue is the write side of the sweet catalogue used for seeding.
type Catalogue interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, req *model.CreateSweetRequest) (*model.Sweet, error)
}

// Seeder fills an empty catalogue from a seed file.
type Seeder struct {
	loader    Loader
	catalogue Catalogue
	logger    zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(loader Loader, catalogue Catalogue, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:    loader,
		catalogue: catalogue,
		logger:    logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed loads path and creates every valid entry, returning how many sweets
// were created. It does nothing when path is empty or the catalogue already
// holds sweets. Entries that fail validation are skipped.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	count, err := s.catalogue.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sweets: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int("existing", count).Msg("catalogue not empty, skipping seed")
		return 0, nil
	}

	entries, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed catalogue: %w", err)
	}

	created := 0
	for i := range entries {
		entry := &entries[i]
		if _, err := s.catalogue.Create(ctx, entry); err != nil {
			if errors.Is(err, model.ErrValidation) {
				s.logger.Warn().Err(err).Int("entry", i+1).Str("name", entry.Name).Msg("skipping invalid seed entry")
				continue
			}
			return created, fmt.Errorf("failed to seed sweet %q: %w", entry.Name, err)
		}
		created++
	}

	s.logger.Info().
		Str("path", path).
		Int("created", created).
		Int("skipped", len(entries)-created).
		Msg("catalogue seeded")

	return created, nil
}
