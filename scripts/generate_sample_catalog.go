package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sweet-shop/internal/model"

	"github.com/rs/zerolog"
)

type sample struct {
	name     string
	category string
	price    float64
	quantity int
}

// Writes data/catalog/sweets.jsonl.gz, the seed file read when
// CATALOG_SEED_FILE points at it. The last line is deliberately invalid and
// is skipped by the seeder.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create directory")
	}

	samples := []sample{
		{"Gummy Bears", "Gummies", 2.50, 100},
		{"Sour Worms", "Gummies", 2.25, 80},
		{"Dark Chocolate Truffle", "Chocolate", 3.75, 40},
		{"Milk Chocolate Buttons", "Chocolate", 1.99, 120},
		{"Salted Caramel Fudge", "Fudge", 4.20, 25},
		{"Sherbet Lemons", "Boiled Sweets", 1.20, 150},
		{"Rhubarb and Custard", "Boiled Sweets", 1.10, 90},
		{"Peppermint Humbugs", "Mints", 1.45, 60},
		{"Treacle Toffee", "Toffee", 2.80, 35},
		{"Marshmallow Twists", "Marshmallow", 1.75, 0},
		{"", "Mystery", 1.00, 1},
	}

	filePath := filepath.Join(dataDir, "sweets.jsonl.gz")
	if err := createCatalogFile(filePath, samples); err != nil {
		logger.Fatal().Err(err).Str("path", filePath).Msg("failed to create catalogue file")
	}

	logger.Info().
		Str("path", filePath).
		Int("entries", len(samples)).
		Msg("sample catalogue created")
}

func createCatalogFile(filePath string, samples []sample) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := json.NewEncoder(gzipWriter)

	for _, s := range samples {
		entry := model.CreateSweetRequest{
			Name:     s.name,
			Category: s.category,
			Price:    &s.price,
			Quantity: &s.quantity,
		}
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("failed to write entry %q: %w", s.name, err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}
