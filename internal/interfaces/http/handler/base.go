package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/dentalhr/backend/internal/interfaces/http/dto"
	"github.com/dentalhr/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidID = shared.NewDomainError(dto.ErrCodeNotFound, "Risorsa non trovata")

// BaseHandler provides common handler utilities.
// Success bodies are written as-is; errors use the dto.Response envelope.
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BindingError sends the 400 body of a request that failed to bind
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err))
}

// HandleError converts err to the error envelope. Domain errors keep their
// code and message; everything else is logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("Request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		if status == http.StatusInternalServerError {
			c.JSON(status, dto.NewErrorResponse(dto.ErrCodeInternal, dto.MessageInternal))
			return
		}
		if cause := errors.Unwrap(domainErr); cause != nil {
			_ = c.Error(cause)
		}
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	logger.L(c.Request.Context()).Error("Unexpected error", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, dto.MessageInternal))
}

// tenantContext returns the resolved caller or answers 401
func (h *BaseHandler) tenantContext(c *gin.Context) (identity.TenantContext, bool) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return identity.TenantContext{}, false
	}
	return tc, true
}

// pathUUID parses a UUID path parameter. A malformed id is reported as not found.
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.HandleError(c, errInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// pathInt parses a positive integer path parameter
func (h *BaseHandler) pathInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 1 {
		h.HandleError(c, errInvalidID)
		return 0, false
	}
	return n, true
}
