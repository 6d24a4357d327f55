package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/pkg/logger"
)

const (
	maxAttempts         = 3
	maxCatalogBodyBytes = 8 << 20
)

// HTTPSource fetches the catalog document from a static URL
type HTTPSource struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	log         zerolog.Logger
}

// NewHTTPSource creates a catalog source for url.
// perHour bounds fetches; values <= 0 fall back to 60 per hour.
func NewHTTPSource(url string, timeout time.Duration, perHour int) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if perHour <= 0 {
		perHour = 60
	}

	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         url,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perHour)/3600), maxAttempts),
		log:         logger.Component("catalog.http"),
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers
func (s *HTTPSource) doRequest(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "shopassist/1.0")
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	return resp, nil
}

// Load fetches and decodes the catalog, retrying transient failures
func (s *HTTPSource) Load(ctx context.Context) ([]domain.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogLoad, err)
		}

		resp, err := s.doRequest(ctx)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("catalog request failed")
			lastErr = err
			if !s.sleep(ctx, attempt) {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, ctx.Err())
			}
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBodyBytes))
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			s.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("catalog source returned error status")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogLoad, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			if !s.sleep(ctx, attempt) {
				return nil, lastErr
			}
			continue
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: failed to read body: %v", domain.ErrCatalogLoad, readErr)
		}

		products, report, err := Decode(body, formatFromContentType(resp.Header.Get("Content-Type"), s.url))
		if err != nil {
			return nil, err
		}
		logReport(s.log, report)
		return products, nil
	}

	s.log.Error().Str("url", s.url).Msg("all catalog fetch attempts failed")
	return nil, lastErr
}

func (s *HTTPSource) sleep(ctx context.Context, attempt int) bool {
	if attempt == maxAttempts {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(exponentialBackoff(attempt)):
		return true
	}
}

// retryable reports whether a status is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func formatFromContentType(contentType, url string) string {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") {
		return FormatYAML
	}
	if strings.Contains(ct, "json") {
		return FormatJSON
	}
	return formatFromPath(url)
}

func logReport(l zerolog.Logger, report LoadReport) {
	for _, q := range report.Quarantined {
		l.Warn().Int("index", q.Index).Str("id", q.ID).Str("reason", q.Reason).Msg("quarantined catalog record")
	}
	l.Info().Int("accepted", report.Accepted).Int("quarantined", len(report.Quarantined)).Msg("catalog decoded")
}
