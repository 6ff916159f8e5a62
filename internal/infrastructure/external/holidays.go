package external

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/cache"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Holiday is one public holiday as published by Nager.Date
type Holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}

// HolidaysClient reads public holidays from a Nager.Date instance
type HolidaysClient struct {
	upstream *upstream
	ttl      time.Duration
}

// NewHolidaysClient creates a client for cfg.HolidaysBaseURL
func NewHolidaysClient(cfg config.ExternalConfig, store cache.Cache, logger *zap.Logger) *HolidaysClient {
	return &HolidaysClient{
		upstream: newUpstream("nager", cfg.HolidaysBaseURL, cfg, store, logger),
		ttl:      cfg.HolidaysCacheTTL,
	}
}

// PublicHolidays lists the holidays of country, an upper-case ISO-3166 alpha-2 code, in year
func (c *HolidaysClient) PublicHolidays(ctx context.Context, year int, country string) ([]Holiday, error) {
	holidays := make([]Holiday, 0)
	key := fmt.Sprintf("holidays:%d:%s", year, country)
	path := fmt.Sprintf("/api/v3/PublicHolidays/%d/%s", year, country)
	if err := c.upstream.getJSON(ctx, key, path, c.ttl, &holidays); err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Paese non supportato")
		}
		return nil, err
	}
	return holidays, nil
}
