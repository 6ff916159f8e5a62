package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey     contextKey = "logger"
	requestIDKey  contextKey = "request_id"
	tenantIDKey   contextKey = "tenant_id"
	userIDKey     contextKey = "user_id"
	employeeIDKey contextKey = "employee_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID for log correlation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActor stores the resolved tenant, user and (optional) employee of the request.
// Empty values are skipped.
func WithActor(ctx context.Context, tenantID, userID, employeeID string) context.Context {
	if tenantID != "" {
		ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	}
	if userID != "" {
		ctx = context.WithValue(ctx, userIDKey, userID)
	}
	if employeeID != "" {
		ctx = context.WithValue(ctx, employeeIDKey, employeeID)
	}
	return ctx
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// GetTenantID retrieves tenant ID from context
func GetTenantID(ctx context.Context) string { return stringValue(ctx, tenantIDKey) }

// GetUserID retrieves user ID from context
func GetUserID(ctx context.Context) string { return stringValue(ctx, userIDKey) }

// GetEmployeeID retrieves employee ID from context
func GetEmployeeID(ctx context.Context) string { return stringValue(ctx, employeeIDKey) }

// L returns the context logger enriched with trace_id, span_id and whatever
// request/actor identifiers the context carries.
//
//	logger.L(ctx).Info("article published", zap.String("article_id", id))
func L(ctx context.Context) *zap.Logger {
	return enrich(ctx, FromContext(ctx))
}

// Enrich adds the context fields to a logger that was not taken from the context,
// e.g. a service's injected logger.
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return enrich(ctx, l)
}

func enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 6)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	for _, k := range []contextKey{requestIDKey, tenantIDKey, userIDKey, employeeIDKey} {
		if v := stringValue(ctx, k); v != "" {
			fields = append(fields, zap.String(string(k), v))
		}
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
