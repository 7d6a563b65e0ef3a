package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plasticlens/backend/internal/domain"
)

// LoaderConfig holds configuration for loading the source table
type LoaderConfig struct {
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// Load reads the source table from a file path or an http(s) URL and returns
// the record store. Any failure here is fatal to the caller.
func Load(ctx context.Context, source string, cfg LoaderConfig) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: no source configured", domain.ErrDatasetUnavailable)
	}

	start := time.Now()
	var (
		data []byte
		err  error
	)
	if isRemote(source) {
		data, err = NewFetcher(cfg.FetchTimeout, logger).Fetch(ctx, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}

	products, err := ParseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	logger.Info("dataset loaded",
		zap.String("source", source),
		zap.Int("records", len(products)),
		zap.Duration("elapsed", time.Since(start)))

	return NewStore(products), nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnavailable, err)
	}
	return data, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
