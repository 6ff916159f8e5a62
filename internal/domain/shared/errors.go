package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the original cause for logging.
// The cause is never part of the message returned to clients.
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors. Messages are user facing and in Italian.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Risorsa non trovata")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Risorsa già esistente")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Dati non validi")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "La risorsa è stata modificata da un'altra richiesta")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Non autenticato")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Non hai i permessi per questa operazione")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operazione non consentita nello stato attuale")
	ErrTenantNotFound      = NewDomainError("TENANT_NOT_FOUND", "Nessuno studio associato all'utente")
	ErrEmployeeNotFound    = NewDomainError("EMPLOYEE_NOT_FOUND", "Nessun dipendente associato all'utente")
	ErrUpstreamFailure     = NewDomainError("UPSTREAM_FAILURE", "Servizio esterno non disponibile")
)
