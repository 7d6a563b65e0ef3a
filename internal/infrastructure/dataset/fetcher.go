package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/plasticlens/backend/internal/domain"
)

const maxFetchAttempts = 3

// Fetcher downloads the source table over HTTP.
type Fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
	backoff    func(attempt int) time.Duration
}

// NewFetcher creates a new fetcher with the given request timeout
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		backoff: exponentialBackoff,
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (f *Fetcher) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PlasticLens/1.0")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnavailable, err)
	}

	return resp, nil
}

// Fetch downloads url and returns the body.
// Transport errors and 5xx responses are retried; other statuses fail at once.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.backoff(attempt - 1)):
			}
		}

		resp, err := f.doRequest(ctx, url)
		if err != nil {
			f.logger.Warn("dataset fetch failed",
				zap.String("url", url), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrDatasetUnavailable, err)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			f.logger.Warn("dataset server error",
				zap.String("url", url), zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrDatasetUnavailable, resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrDatasetUnavailable, resp.StatusCode)
		}

		f.logger.Debug("dataset fetched", zap.String("url", url), zap.Int("bytes", len(body)))
		return body, nil
	}

	return nil, lastErr
}

// exponentialBackoff returns the wait before retry number attempt (1-based).
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
