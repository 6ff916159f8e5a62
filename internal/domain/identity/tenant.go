package identity

import (
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
)

// SubscriptionStatus is the billing state of a practice
type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "TRIAL"
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
	SubscriptionUnpaid   SubscriptionStatus = "UNPAID"
)

// TrialPeriod is granted to every newly registered practice
const TrialPeriod = 14 * 24 * time.Hour

// AllowsWrites reports whether the practice may still modify its data.
// Reads stay available in every state.
func (s SubscriptionStatus) AllowsWrites() bool {
	return s != SubscriptionCanceled && s != SubscriptionUnpaid
}

// Tenant is a dental practice, the unit of data partitioning
type Tenant struct {
	shared.BaseAggregateRoot
	Name                 string
	Slug                 string
	VATNumber            string
	SubscriptionStatus   SubscriptionStatus
	StripeCustomerID     string
	StripeSubscriptionID string
	TrialEndsAt          *time.Time
	CurrentPeriodEnd     *time.Time
}

// NewTenant creates a practice in trial
func NewTenant(name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Il nome dello studio è obbligatorio")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Il nome dello studio non può superare 200 caratteri")
	}
	slug := shared.Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Il nome dello studio deve contenere lettere o numeri")
	}

	tenant := &Tenant{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		Slug:               slug,
		SubscriptionStatus: SubscriptionTrial,
	}
	trialEnd := tenant.CreatedAt.Add(TrialPeriod)
	tenant.TrialEndsAt = &trialEnd
	return tenant, nil
}

// SetStripeCustomerID links the practice to its payment provider customer
func (t *Tenant) SetStripeCustomerID(customerID string) {
	t.StripeCustomerID = customerID
	t.UpdatedAt = time.Now()
}

// ApplySubscription records the subscription state reported by the payment provider
func (t *Tenant) ApplySubscription(status SubscriptionStatus, subscriptionID string, periodEnd *time.Time) {
	t.SubscriptionStatus = status
	if subscriptionID != "" {
		t.StripeSubscriptionID = subscriptionID
	}
	if periodEnd != nil {
		t.CurrentPeriodEnd = periodEnd
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetSubscriptionStatus changes only the status, as invoice events do
func (t *Tenant) SetSubscriptionStatus(status SubscriptionStatus) {
	t.ApplySubscription(status, "", nil)
}
