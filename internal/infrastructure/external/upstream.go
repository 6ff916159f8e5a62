package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/cache"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// maxResponseSize bounds upstream bodies
const maxResponseSize = 1 << 20

// ErrUpstreamNotFound is returned when the upstream has nothing for the request (404 or 204)
var ErrUpstreamNotFound = errors.New("upstream resource not found")

// StatusError is a non-2xx upstream answer
type StatusError struct {
	Upstream   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP %d", e.Upstream, e.StatusCode)
}

// upstream is one third-party JSON API behind its own circuit breaker and cache
type upstream struct {
	name       string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cache      cache.Cache
	logger     *zap.Logger
}

func newUpstream(name, baseURL string, cfg config.ExternalConfig, store cache.Cache, logger *zap.Logger) *upstream {
	maxFails := cfg.BreakerMaxFails
	if maxFails == 0 {
		maxFails = 5
	}
	log := logger.With(zap.String("upstream", name))
	return &upstream{
		name:       name,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     cfg.BreakerOpenPeriod,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFails
			},
			IsSuccessful: func(err error) bool {
				// a 404 is an answer, not an outage
				return err == nil || errors.Is(err, ErrUpstreamNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		cache:  store,
		logger: log,
	}
}

// getJSON serves key from the cache or fetches path, decodes it into out and caches the raw body
func (u *upstream) getJSON(ctx context.Context, key, path string, ttl time.Duration, out any) error {
	if body, ok := u.cached(ctx, key); ok {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
	}

	result, err := u.breaker.Execute(func() (interface{}, error) {
		return u.fetch(ctx, path)
	})
	if err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			return err
		}
		return shared.WrapDomainError(shared.ErrUpstreamFailure.Code, shared.ErrUpstreamFailure.Message, err)
	}

	body := result.([]byte)
	if err := json.Unmarshal(body, out); err != nil {
		return shared.WrapDomainError(shared.ErrUpstreamFailure.Code, shared.ErrUpstreamFailure.Message,
			fmt.Errorf("%s: failed to decode response: %w", u.name, err))
	}

	if err := u.cache.Set(ctx, key, body, ttl); err != nil {
		u.logger.Warn("Failed to cache upstream response", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (u *upstream) cached(ctx context.Context, key string) ([]byte, bool) {
	body, ok, err := u.cache.Get(ctx, key)
	if err != nil {
		u.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return body, ok
}

func (u *upstream) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", u.name, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", u.name, err)
	}
	defer resp.Body.Close()

	u.logger.Debug("Upstream call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, ErrUpstreamNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Upstream: u.name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", u.name, err)
	}
	return body, nil
}
