package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics counts manual and billing activity per practice.
// A nil *BusinessMetrics records nothing, so services can hold one unconditionally.
type BusinessMetrics struct {
	logger *zap.Logger

	articlesCreated     *Counter
	revisionsWritten    *Counter
	acknowledgments     *Counter
	checklistExecutions *Counter
	completionRate      *Histogram
	webhookEvents       *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates the business instruments on the given meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error
	if bm.articlesCreated, err = NewCounter(cfg.Meter, "dhr_manual_articles_created_total",
		"Manual articles created", "{articles}"); err != nil {
		return nil, err
	}
	if bm.revisionsWritten, err = NewCounter(cfg.Meter, "dhr_manual_revisions_total",
		"Article revisions written after creation", "{revisions}"); err != nil {
		return nil, err
	}
	if bm.acknowledgments, err = NewCounter(cfg.Meter, "dhr_manual_acknowledgments_total",
		"Article read acknowledgments recorded", "{acknowledgments}"); err != nil {
		return nil, err
	}
	if bm.checklistExecutions, err = NewCounter(cfg.Meter, "dhr_checklist_executions_total",
		"Checklist executions recorded", "{executions}"); err != nil {
		return nil, err
	}
	if bm.completionRate, err = NewHistogram(cfg.Meter, "dhr_checklist_completion_rate",
		"Completion rate of checklist executions", "%", PercentBuckets...); err != nil {
		return nil, err
	}
	if bm.webhookEvents, err = NewCounter(cfg.Meter, "dhr_billing_webhook_events_total",
		"Stripe webhook events received", "{events}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordArticleCreated counts a new article
func (bm *BusinessMetrics) RecordArticleCreated(ctx context.Context, tenantID uuid.UUID, status string) {
	if bm == nil {
		return
	}
	bm.articlesCreated.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrArticleState.String(status))
}

// RecordRevision counts a content change that produced a revision
func (bm *BusinessMetrics) RecordRevision(ctx context.Context, tenantID uuid.UUID) {
	if bm == nil {
		return
	}
	bm.revisionsWritten.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordAcknowledgment counts an acknowledgment, including overwrites
func (bm *BusinessMetrics) RecordAcknowledgment(ctx context.Context, tenantID uuid.UUID) {
	if bm == nil {
		return
	}
	bm.acknowledgments.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordChecklistExecution counts an execution and observes its completion rate
func (bm *BusinessMetrics) RecordChecklistExecution(ctx context.Context, tenantID uuid.UUID, completionRate int) {
	if bm == nil {
		return
	}
	tenant := AttrTenantID.String(tenantID.String())
	bm.checklistExecutions.Inc(ctx, tenant)
	bm.completionRate.Record(ctx, int64(completionRate), tenant)
}

// Webhook outcomes
const (
	WebhookApplied   = "applied"
	WebhookIgnored   = "ignored"
	WebhookDuplicate = "duplicate"
	WebhookFailed    = "failed"
)

// RecordWebhookEvent counts a processed webhook by type and outcome
func (bm *BusinessMetrics) RecordWebhookEvent(ctx context.Context, eventType, outcome string) {
	if bm == nil {
		return
	}
	bm.webhookEvents.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcome))
}
