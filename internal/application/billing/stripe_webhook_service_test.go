package billing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	infrabilling "github.com/dentalhr/backend/internal/infrastructure/billing"
	"github.com/dentalhr/backend/internal/infrastructure/cache"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*identity.Tenant, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func newTestTenant(t *testing.T) *identity.Tenant {
	tenant, err := identity.NewTenant("Studio Dentistico Bianchi")
	require.NoError(t, err)
	tenant.SetStripeCustomerID("cus_test123")
	return tenant
}

func newTestService(repo *MockTenantRepository, store cache.IdempotencyStore) *StripeWebhookService {
	adapter := infrabilling.NewStripeAdapter(config.StripeConfig{WebhookSecret: testSecret}, zap.NewNop())
	return NewStripeWebhookService(StripeWebhookServiceConfig{
		Verifier:    adapter,
		TenantRepo:  repo,
		Idempotency: store,
		Logger:      zap.NewNop(),
	})
}

func signed(t *testing.T, id, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": "2024-06-20",
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testSecret})
	return sp.Payload, sp.Header
}

func subscriptionObject(status string, periodEnd int64) map[string]any {
	return map[string]any{
		"id":                 "sub_123",
		"object":             "subscription",
		"customer":           "cus_test123",
		"status":             status,
		"current_period_end": periodEnd,
	}
}

func TestProcessWebhook_InvalidSignatureHasNoSideEffects(t *testing.T) {
	repo := new(MockTenantRepository)
	store := cache.NewMemoryStore(0)
	svc := newTestService(repo, store)

	payload, _ := signed(t, "evt_1", EventInvoicePaid, map[string]any{"id": "in_1", "object": "invoice", "customer": "cus_test123"})

	result, err := svc.ProcessWebhook(context.Background(), payload, "t=1,v1=deadbeef")

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SIGNATURE", domainErr.Code)
	assert.Equal(t, 0, store.Len())
	repo.AssertNotCalled(t, "FindByStripeCustomerID", mock.Anything, mock.Anything)
}

func TestProcessWebhook_SubscriptionEvents(t *testing.T) {
	periodEnd := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		eventType    string
		stripeStatus string
		want         identity.SubscriptionStatus
	}{
		{EventSubscriptionCreated, "active", identity.SubscriptionActive},
		{EventSubscriptionUpdated, "past_due", identity.SubscriptionPastDue},
		{EventSubscriptionUpdated, "unpaid", identity.SubscriptionUnpaid},
		{EventSubscriptionUpdated, "trialing", identity.SubscriptionTrial},
		{EventSubscriptionDeleted, "canceled", identity.SubscriptionCanceled},
		{EventSubscriptionDeleted, "active", identity.SubscriptionCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.eventType+"/"+tt.stripeStatus, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockTenantRepository)
			tenant := newTestTenant(t)
			repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
			repo.On("Save", ctx, tenant).Return(nil)
			svc := newTestService(repo, cache.NewMemoryStore(0))

			payload, header := signed(t, "evt_"+uuid.NewString(), tt.eventType, subscriptionObject(tt.stripeStatus, periodEnd.Unix()))
			result, err := svc.ProcessWebhook(ctx, payload, header)

			require.NoError(t, err)
			assert.True(t, result.Processed)
			assert.Equal(t, tt.want, tenant.SubscriptionStatus)
			if tt.eventType != EventSubscriptionDeleted {
				assert.Equal(t, "sub_123", tenant.StripeSubscriptionID)
				require.NotNil(t, tenant.CurrentPeriodEnd)
				assert.True(t, periodEnd.Equal(*tenant.CurrentPeriodEnd))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestProcessWebhook_InvoiceEvents(t *testing.T) {
	tests := []struct {
		eventType string
		want      identity.SubscriptionStatus
	}{
		{EventInvoicePaid, identity.SubscriptionActive},
		{EventInvoicePaymentFailed, identity.SubscriptionPastDue},
	}
	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockTenantRepository)
			tenant := newTestTenant(t)
			repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
			repo.On("Save", ctx, tenant).Return(nil)
			svc := newTestService(repo, nil)

			payload, header := signed(t, "evt_inv", tt.eventType, map[string]any{"id": "in_1", "object": "invoice", "customer": "cus_test123"})
			result, err := svc.ProcessWebhook(ctx, payload, header)

			require.NoError(t, err)
			assert.True(t, result.Processed)
			assert.Equal(t, tt.want, tenant.SubscriptionStatus)
		})
	}
}

func TestProcessWebhook_UnknownCustomerIsAcknowledged(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTenantRepository)
	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(nil, shared.ErrNotFound)
	svc := newTestService(repo, cache.NewMemoryStore(0))

	payload, header := signed(t, "evt_2", EventInvoicePaid, map[string]any{"id": "in_1", "object": "invoice", "customer": "cus_test123"})
	result, err := svc.ProcessWebhook(ctx, payload, header)

	require.NoError(t, err)
	assert.False(t, result.Processed)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessWebhook_UnhandledTypeIsAcknowledged(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := newTestService(repo, cache.NewMemoryStore(0))

	payload, header := signed(t, "evt_3", "charge.refunded", map[string]any{"id": "ch_1", "object": "charge"})
	result, err := svc.ProcessWebhook(context.Background(), payload, header)

	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "charge.refunded", result.EventType)
	repo.AssertNotCalled(t, "FindByStripeCustomerID", mock.Anything, mock.Anything)
}

func TestProcessWebhook_ReplayedEventHasNoEffect(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTenantRepository)
	tenant := newTestTenant(t)
	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil).Once()
	repo.On("Save", ctx, tenant).Return(nil).Once()
	svc := newTestService(repo, cache.NewMemoryStore(0))

	payload, header := signed(t, "evt_replay", EventInvoicePaymentFailed, map[string]any{"id": "in_1", "object": "invoice", "customer": "cus_test123"})

	first, err := svc.ProcessWebhook(ctx, payload, header)
	require.NoError(t, err)
	assert.True(t, first.Processed)

	tenant.SetSubscriptionStatus(identity.SubscriptionActive)
	second, err := svc.ProcessWebhook(ctx, payload, header)
	require.NoError(t, err)
	assert.False(t, second.Processed)
	assert.Equal(t, "duplicate event", second.Message)
	assert.Equal(t, identity.SubscriptionActive, tenant.SubscriptionStatus)
	repo.AssertExpectations(t)
}

func TestProcessWebhook_FailureReleasesEventForRetry(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTenantRepository)
	tenant := newTestTenant(t)
	repo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
	repo.On("Save", ctx, tenant).Return(errors.New("connection reset")).Once()
	repo.On("Save", ctx, tenant).Return(nil).Once()
	store := cache.NewMemoryStore(0)
	svc := newTestService(repo, store)

	payload, header := signed(t, "evt_retry", EventInvoicePaid, map[string]any{"id": "in_1", "object": "invoice", "customer": "cus_test123"})

	_, err := svc.ProcessWebhook(ctx, payload, header)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())

	result, err := svc.ProcessWebhook(ctx, payload, header)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, identity.SubscriptionActive, tenant.SubscriptionStatus)
}

func TestProcessWebhook_MissingCustomerIsSkipped(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := newTestService(repo, nil)

	payload, header := signed(t, "evt_4", EventSubscriptionDeleted, map[string]any{"id": "sub_1", "object": "subscription", "status": "canceled"})
	result, err := svc.ProcessWebhook(context.Background(), payload, header)

	require.NoError(t, err)
	assert.False(t, result.Processed)
}
