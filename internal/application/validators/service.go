// Package validators exposes the stateless lookups used by the practice
// forms: exchange rates, public holidays, fiscal codes and email addresses.
package validators

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/external"
)

// DefaultBaseCurrency is used when no base currency is requested
const DefaultBaseCurrency = "EUR"

const (
	minHolidayYear = 1900
	maxHolidayYear = 2100
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	countryPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
)

// RatesProvider returns the latest exchange rates for a base currency
type RatesProvider interface {
	Latest(ctx context.Context, base string) (*external.RatesTable, error)
}

// HolidaysProvider lists public holidays of a country in a year
type HolidaysProvider interface {
	PublicHolidays(ctx context.Context, year int, country string) ([]external.Holiday, error)
}

// EmailChecker validates an email address
type EmailChecker interface {
	Validate(ctx context.Context, address string) external.EmailCheck
}

// RatesQuery represents query parameters of the exchange-rate lookup
type RatesQuery struct {
	Base string `form:"base"`
}

// HolidaysQuery represents query parameters of the holiday lookup
type HolidaysQuery struct {
	Year    int    `form:"year" binding:"required"`
	Country string `form:"country" binding:"required"`
}

// FiscalCodeRequest carries a fiscal code to decompose
type FiscalCodeRequest struct {
	Code string `json:"code"`
}

// EmailRequest carries an address to validate
type EmailRequest struct {
	Email string `json:"email"`
}

// Service validates inputs and delegates to the external clients
type Service struct {
	rates    RatesProvider
	holidays HolidaysProvider
	email    EmailChecker
	now      func() time.Time
}

// NewService creates a new validators service
func NewService(rates RatesProvider, holidays HolidaysProvider, email EmailChecker) *Service {
	return &Service{
		rates:    rates,
		holidays: holidays,
		email:    email,
		now:      time.Now,
	}
}

// ExchangeRates returns the latest rates against base (EUR when empty)
func (s *Service) ExchangeRates(ctx context.Context, q RatesQuery) (*external.RatesTable, error) {
	base := strings.ToUpper(strings.TrimSpace(q.Base))
	if base == "" {
		base = DefaultBaseCurrency
	}
	if !currencyPattern.MatchString(base) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "La valuta deve essere un codice ISO-4217 di 3 lettere")
	}
	return s.rates.Latest(ctx, base)
}

// Holidays lists the public holidays of a country in a year
func (s *Service) Holidays(ctx context.Context, q HolidaysQuery) ([]external.Holiday, error) {
	if q.Year < minHolidayYear || q.Year > maxHolidayYear {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "L'anno deve essere compreso tra 1900 e 2100")
	}
	country := strings.ToUpper(strings.TrimSpace(q.Country))
	if !countryPattern.MatchString(country) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Il paese deve essere un codice ISO-3166 di 2 lettere")
	}
	return s.holidays.PublicHolidays(ctx, q.Year, country)
}

// ValidateFiscalCode decomposes an Italian fiscal code. Invalid codes are
// reported in the result, never as an error.
func (s *Service) ValidateFiscalCode(req FiscalCodeRequest) external.FiscalCode {
	if strings.TrimSpace(req.Code) == "" {
		return external.FiscalCode{Error: "Il codice fiscale è obbligatorio"}
	}
	return external.DecomposeFiscalCode(req.Code, s.now())
}

// ValidateEmail checks syntax and MX records of an address
func (s *Service) ValidateEmail(ctx context.Context, req EmailRequest) external.EmailCheck {
	if strings.TrimSpace(req.Email) == "" {
		return external.EmailCheck{Error: "L'email è obbligatoria"}
	}
	if len(req.Email) > 254 {
		return external.EmailCheck{Error: "L'email è troppo lunga"}
	}
	return s.email.Validate(ctx, req.Email)
}
