package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeTenantNotFound      = "TENANT_NOT_FOUND"
	ErrCodeEmployeeNotFound    = "EMPLOYEE_NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Transport error codes
const (
	ErrCodeUpstreamFailure = "UPSTREAM_FAILURE"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeSubscription    = "SUBSCRIPTION_INACTIVE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Domain-specific field codes (INVALID_TITLE, ...) are validation failures.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,

	// Validation -> 400
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,
	"INVALID_INPUT":             http.StatusBadRequest,
	"INVALID_STATE":             http.StatusBadRequest,
	"INVALID_SLUG":              http.StatusBadRequest,
	"INVALID_TITLE":             http.StatusBadRequest,
	"INVALID_CONTENT":           http.StatusBadRequest,
	"INVALID_CATEGORY":          http.StatusBadRequest,
	"INVALID_STATUS":            http.StatusBadRequest,
	"INVALID_STATUS_TRANSITION": http.StatusBadRequest,
	"CATEGORY_CYCLE":            http.StatusBadRequest,
	"INVALID_NAME":              http.StatusBadRequest,
	"INVALID_PARENT":            http.StatusBadRequest,
	"INVALID_FREQUENCY":         http.StatusBadRequest,
	"TOO_MANY_ITEMS":            http.StatusBadRequest,
	"INVALID_ITEM":              http.StatusBadRequest,
	"INVALID_ITEM_KEY":          http.StatusBadRequest,
	"CHECKLIST_INACTIVE":        http.StatusBadRequest,
	"ARTICLE_NOT_PUBLISHED":     http.StatusBadRequest,
	"INVALID_SIGNATURE":         http.StatusBadRequest,
	"INVALID_QUERY":             http.StatusBadRequest,
	"INVALID_ROLE":              http.StatusBadRequest,
	"INVALID_EMAIL":             http.StatusBadRequest,
	"INVALID_PASSWORD":          http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeSubscription: http.StatusForbidden,

	// Resources
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeTenantNotFound:      http.StatusNotFound,
	ErrCodeEmployeeNotFound:    http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	"CATEGORY_HAS_CHILDREN":    http.StatusConflict,
	"CATEGORY_HAS_ARTICLES":    http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUpstreamFailure: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MessageInternal is the generic message of every 500 response; the cause is only logged
const MessageInternal = "Errore interno del server"
