package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/billing"
	"github.com/dentalhr/backend/internal/infrastructure/cache"
	"github.com/dentalhr/backend/internal/infrastructure/telemetry"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// Handled Stripe event types
const (
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaid          = "invoice.paid"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

// EventDedupTTL is how long a processed event id is remembered
const EventDedupTTL = 24 * time.Hour

// ErrInvalidSignature is returned when the Stripe-Signature header does not verify
var ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Firma del webhook non valida")

// EventVerifier checks a webhook signature and decodes the event
type EventVerifier interface {
	VerifyEvent(payload []byte, header string) (stripe.Event, error)
}

// StripeWebhookService reconciles practice subscription state from Stripe webhooks
type StripeWebhookService struct {
	verifier        EventVerifier
	tenantRepo      identity.TenantRepository
	idempotency     cache.IdempotencyStore
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Verifier    EventVerifier
	TenantRepo  identity.TenantRepository
	Idempotency cache.IdempotencyStore // optional; without it replays are applied again
	Logger      *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	return &StripeWebhookService{
		verifier:    cfg.Verifier,
		tenantRepo:  cfg.TenantRepo,
		idempotency: cfg.Idempotency,
		logger:      cfg.Logger,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *StripeWebhookService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the signature, drops replays, and applies the event.
// Nothing is read or written before the signature has been verified.
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.verifier.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected Stripe webhook", zap.Error(err))
		return nil, shared.WrapDomainError(ErrInvalidSignature.Code, ErrInvalidSignature.Message, err)
	}

	eventType := string(event.Type)
	result := &WebhookResult{EventID: event.ID, EventType: eventType}
	logger := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", eventType))

	dedupKey := "stripe:event:" + event.ID
	if s.idempotency != nil {
		first, err := s.idempotency.MarkProcessed(ctx, dedupKey, EventDedupTTL)
		if err != nil {
			logger.Warn("Idempotency store unavailable, processing without dedup", zap.Error(err))
		} else if !first {
			logger.Info("Duplicate Stripe event ignored")
			result.Message = "duplicate event"
			s.businessMetrics.RecordWebhookEvent(ctx, eventType, telemetry.WebhookDuplicate)
			return result, nil
		}
	}

	applied, err := s.dispatch(ctx, event, logger)
	if err != nil {
		if s.idempotency != nil {
			if ferr := s.idempotency.Forget(ctx, dedupKey); ferr != nil {
				logger.Warn("Failed to release event id after error", zap.Error(ferr))
			}
		}
		logger.Error("Failed to process Stripe event", zap.Error(err))
		s.businessMetrics.RecordWebhookEvent(ctx, eventType, telemetry.WebhookFailed)
		return nil, err
	}

	result.Processed = applied
	if applied {
		s.businessMetrics.RecordWebhookEvent(ctx, eventType, telemetry.WebhookApplied)
	} else {
		result.Message = "event acknowledged without changes"
		s.businessMetrics.RecordWebhookEvent(ctx, eventType, telemetry.WebhookIgnored)
	}
	return result, nil
}

func (s *StripeWebhookService) dispatch(ctx context.Context, event stripe.Event, logger *zap.Logger) (bool, error) {
	if event.Data == nil {
		logger.Warn("Stripe event without data")
		return false, nil
	}

	switch string(event.Type) {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return false, fmt.Errorf("failed to unmarshal subscription: %w", err)
		}
		var periodEnd *time.Time
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			periodEnd = &end
		}
		status := billing.MapSubscriptionStatus(sub.Status)
		return s.updateTenant(ctx, customerID(sub.Customer), logger, func(t *identity.Tenant) {
			t.ApplySubscription(status, sub.ID, periodEnd)
		})

	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return false, fmt.Errorf("failed to unmarshal subscription: %w", err)
		}
		return s.updateTenant(ctx, customerID(sub.Customer), logger, func(t *identity.Tenant) {
			t.SetSubscriptionStatus(identity.SubscriptionCanceled)
		})

	case EventInvoicePaid, EventInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return false, fmt.Errorf("failed to unmarshal invoice: %w", err)
		}
		status := identity.SubscriptionActive
		if string(event.Type) == EventInvoicePaymentFailed {
			status = identity.SubscriptionPastDue
		}
		return s.updateTenant(ctx, customerID(inv.Customer), logger, func(t *identity.Tenant) {
			t.SetSubscriptionStatus(status)
		})

	default:
		logger.Debug("Unhandled Stripe event type")
		return false, nil
	}
}

// updateTenant applies change to the practice owning the Stripe customer.
// Unknown customers are acknowledged so Stripe stops retrying.
func (s *StripeWebhookService) updateTenant(ctx context.Context, customerID string, logger *zap.Logger, change func(*identity.Tenant)) (bool, error) {
	if customerID == "" {
		logger.Warn("Stripe event has no customer, skipping")
		return false, nil
	}

	tenant, err := s.tenantRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			logger.Warn("No practice for Stripe customer", zap.String("customer_id", customerID))
			return false, nil
		}
		return false, fmt.Errorf("failed to find tenant: %w", err)
	}

	previous := tenant.SubscriptionStatus
	change(tenant)
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return false, fmt.Errorf("failed to save tenant: %w", err)
	}

	logger.Info("Subscription status reconciled",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(tenant.SubscriptionStatus)))
	return true, nil
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}
