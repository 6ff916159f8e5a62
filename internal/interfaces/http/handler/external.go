package handler

import (
	"context"

	"github.com/dentalhr/backend/internal/application/validators"
	"github.com/dentalhr/backend/internal/infrastructure/external"
	"github.com/gin-gonic/gin"
)

// ValidatorService is the public validator surface used by ExternalHandler
type ValidatorService interface {
	ExchangeRates(ctx context.Context, q validators.RatesQuery) (*external.RatesTable, error)
	Holidays(ctx context.Context, q validators.HolidaysQuery) ([]external.Holiday, error)
	ValidateFiscalCode(req validators.FiscalCodeRequest) external.FiscalCode
	ValidateEmail(ctx context.Context, req validators.EmailRequest) external.EmailCheck
}

// ExternalHandler exposes the public validators. None of these routes need a session.
type ExternalHandler struct {
	BaseHandler
	validators ValidatorService
}

// NewExternalHandler creates a new ExternalHandler
func NewExternalHandler(svc ValidatorService) *ExternalHandler {
	return &ExternalHandler{validators: svc}
}

// ExchangeRates handles GET /external/exchange-rates?base=
func (h *ExternalHandler) ExchangeRates(c *gin.Context) {
	var q validators.RatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	table, err := h.validators.ExchangeRates(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, table)
}

// Holidays handles GET /external/holidays?year=&country=
func (h *ExternalHandler) Holidays(c *gin.Context) {
	var q validators.HolidaysQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	holidays, err := h.validators.Holidays(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, holidays)
}

// ValidateFiscalCode handles POST /external/validate-cf.
// The outcome is always a 200; validity is part of the payload.
func (h *ExternalHandler) ValidateFiscalCode(c *gin.Context) {
	var req validators.FiscalCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	h.Success(c, h.validators.ValidateFiscalCode(req))
}

// ValidateEmail handles POST /external/validate-email
func (h *ExternalHandler) ValidateEmail(c *gin.Context) {
	var req validators.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	h.Success(c, h.validators.ValidateEmail(c.Request.Context(), req))
}
