package external

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/cache"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RatesTable is the latest reference rates for one base currency
type RatesTable struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// RatesClient reads ECB reference rates from a Frankfurter instance
type RatesClient struct {
	upstream *upstream
	ttl      time.Duration
}

// NewRatesClient creates a client for cfg.RatesBaseURL
func NewRatesClient(cfg config.ExternalConfig, store cache.Cache, logger *zap.Logger) *RatesClient {
	return &RatesClient{
		upstream: newUpstream("frankfurter", cfg.RatesBaseURL, cfg, store, logger),
		ttl:      cfg.RatesCacheTTL,
	}
}

// Latest returns today's rates against base, an upper-case ISO-4217 code
func (c *RatesClient) Latest(ctx context.Context, base string) (*RatesTable, error) {
	var table RatesTable
	path := "/latest?from=" + url.QueryEscape(base)
	if err := c.upstream.getJSON(ctx, "rates:"+base, path, c.ttl, &table); err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Valuta non supportata")
		}
		return nil, err
	}
	return &table, nil
}
