package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped feed files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based campaign feed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-loader").Logger(),
	}
}

// Load reads a gzipped feed file with one JSON campaign per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]Campaign, error) {
	l.logger.Info().Str("file", filePath).Msg("loading campaign feed")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open feed file")
		return nil, fmt.Errorf("failed to open feed file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	campaigns, err := decodeCampaigns(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading feed file")
		return nil, fmt.Errorf("error reading feed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("campaigns_loaded", len(campaigns)).
		Msg("campaign feed loaded")

	return campaigns, nil
}

// decodeCampaigns reads JSON-lines campaign records, skipping blank lines and
// validating each record as it arrives.
func decodeCampaigns(ctx context.Context, r interface{ Read([]byte) (int, error) }) ([]Campaign, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var campaigns []Campaign
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var c Campaign
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("line %d: invalid campaign record: %w", lineNo, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		campaigns = append(campaigns, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return campaigns, nil
}
