package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"LotoSentinel/internal/config"
)

// httpClient wraps the standard client with a shared rate limiter and
// exponential-backoff retries for transient upstream failures.
type httpClient struct {
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  uint64
	baseBackoff time.Duration
	apiKey      string
	log         zerolog.Logger
}

func newHTTPClient(cfg config.DataConfig, log zerolog.Logger) *httpClient {
	return &httpClient{
		client:      &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		maxRetries:  uint64(cfg.MaxRetries),
		baseBackoff: 500 * time.Millisecond,
		apiKey:      cfg.APIKey,
		log:         log,
	}
}

// statusError marks an upstream HTTP failure; 5xx and 429 retry.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.code)
}

// getJSON fetches url and decodes the JSON body into dest.
func (c *httpClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("request failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Str("url", url).
				Msg("retryable upstream status")
			return &statusError{code: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&statusError{code: resp.StatusCode})
		}
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseBackoff
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
}
