// Package catalog seeds an empty sweet catalogue from a gzipped JSON-lines
// file, read from the local file system or from S3.
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sweet-shop/internal/model"

	"github.com/rs/zerolog"
)

// Loader defines the interface for loading seed catalogue files.
type Loader interface {
	// Load reads a gzipped JSON-lines file. Each non-blank line holds one
	// sweet in the create request shape.
	Load(ctx context.Context, path string) ([]model.CreateSweetRequest, error)
}

// decodeEntries reads gzipped JSON lines from r. Lines that are not valid
// JSON are skipped with a warning.
func decodeEntries(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) ([]model.CreateSweetRequest, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var entries []model.CreateSweetRequest
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically
		if lineNo%1000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("catalogue loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry model.CreateSweetRequest
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			logger.Warn().Err(err).Str("source", source).Int("line", lineNo).Msg("skipping malformed catalogue line")
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Str("source", source).Msg("error reading catalogue file")
		return nil, fmt.Errorf("error reading catalogue file %s: %w", source, err)
	}

	return entries, nil
}
