package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// ErrWebhookNotConfigured is returned by VerifyEvent when no signing secret is set
var ErrWebhookNotConfigured = errors.New("stripe: webhook secret not configured")

// CreateCustomerInput describes the practice a Stripe customer is created for
type CreateCustomerInput struct {
	TenantID uuid.UUID
	Name     string
	Email    string
}

// StripeAdapter wraps the Stripe calls the backend makes: customer creation
// at registration and signature verification of incoming webhooks
type StripeAdapter struct {
	customers     *customer.Client
	webhookSecret string
	logger        *zap.Logger
}

// AdapterOption configures a StripeAdapter
type AdapterOption func(*StripeAdapter)

// WithBackend replaces the Stripe API backend, used in tests
func WithBackend(b stripe.Backend) AdapterOption {
	return func(a *StripeAdapter) {
		a.customers.B = b
	}
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(cfg config.StripeConfig, logger *zap.Logger, opts ...AdapterOption) *StripeAdapter {
	a := &StripeAdapter{
		customers: &customer.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateCustomer creates a Stripe customer for a practice and returns its id.
// The tenant id doubles as idempotency key so a retried registration does not
// produce a second customer.
func (a *StripeAdapter) CreateCustomer(ctx context.Context, input CreateCustomerInput) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(input.Name),
		Email: stripe.String(input.Email),
	}
	params.Context = ctx
	params.SetIdempotencyKey("customer-" + input.TenantID.String())
	params.AddMetadata("tenant_id", input.TenantID.String())

	cust, err := a.customers.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("tenant_id", input.TenantID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

// VerifyEvent checks the Stripe-Signature header against the payload and
// decodes the event. Events sent with another API version are accepted; the
// handlers read only fields that are stable across versions.
func (a *StripeAdapter) VerifyEvent(payload []byte, header string) (stripe.Event, error) {
	if a.webhookSecret == "" {
		return stripe.Event{}, ErrWebhookNotConfigured
	}
	return webhook.ConstructEventWithOptions(payload, header, a.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// MapSubscriptionStatus converts a Stripe subscription status to the
// practice's subscription status. Unknown states fall back to trial.
func MapSubscriptionStatus(status stripe.SubscriptionStatus) identity.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return identity.SubscriptionActive
	case stripe.SubscriptionStatusPastDue:
		return identity.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled:
		return identity.SubscriptionCanceled
	case stripe.SubscriptionStatusUnpaid:
		return identity.SubscriptionUnpaid
	default:
		return identity.SubscriptionTrial
	}
}
