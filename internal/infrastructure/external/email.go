package external

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MXResolver looks up mail exchangers; *net.Resolver satisfies it
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// EmailCheck is the outcome of an address validation
type EmailCheck struct {
	Valid       bool   `json:"valid"`
	FormatValid bool   `json:"formatValid"`
	HasMX       bool   `json:"hasMx"`
	Domain      string `json:"domain,omitempty"`
	Error       string `json:"error,omitempty"`
	// Code is set when the answer is inconclusive because the lookup itself failed
	Code string `json:"code,omitempty"`
}

// EmailValidator checks address syntax and that the domain accepts mail
type EmailValidator struct {
	resolver MXResolver
	timeout  time.Duration
	logger   *zap.Logger
}

// NewEmailValidator creates a validator. A nil resolver uses the system resolver.
func NewEmailValidator(resolver MXResolver, timeout time.Duration, logger *zap.Logger) *EmailValidator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EmailValidator{resolver: resolver, timeout: timeout, logger: logger}
}

// Validate parses address as an RFC 5322 addr-spec and looks up the MX records of its domain.
// Display-name forms such as "Anna <anna@example.com>" are rejected.
func (v *EmailValidator) Validate(ctx context.Context, address string) EmailCheck {
	address = strings.TrimSpace(address)
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address || parsed.Name != "" {
		return EmailCheck{Error: "Formato email non valido"}
	}

	at := strings.LastIndexByte(parsed.Address, '@')
	domain := strings.ToLower(parsed.Address[at+1:])
	if !strings.Contains(domain, ".") {
		return EmailCheck{Domain: domain, Error: "Formato email non valido"}
	}

	check := EmailCheck{FormatValid: true, Domain: domain}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	records, err := v.resolver.LookupMX(lookupCtx, domain)
	if err != nil && !isNoSuchDomain(err) {
		v.logger.Warn("MX lookup failed", zap.String("domain", domain), zap.Error(err))
		check.Error = shared.ErrUpstreamFailure.Message
		check.Code = shared.ErrUpstreamFailure.Code
		return check
	}
	check.HasMX = len(records) > 0
	check.Valid = check.HasMX
	if !check.HasMX {
		check.Error = "Il dominio non accetta email"
	}
	return check
}

// isNoSuchDomain reports whether the resolver answered authoritatively that there is nothing to find
func isNoSuchDomain(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
