package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantContextKey stores the resolved identity.TenantContext in gin.Context
const TenantContextKey = "tenant_context"

// TenantResolver builds the request identity from the authenticated user
type TenantResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (identity.TenantContext, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	Resolver TenantResolver
	Logger   *zap.Logger
}

// Tenant resolves the caller's practice, role and employee record. It must run
// after JWTAuth. Practices whose subscription no longer allows writes get 403
// on every non-read request.
func Tenant(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Autenticazione richiesta")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Token non valido")
			return
		}

		tc, err := cfg.Resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, shared.ErrTenantNotFound) {
				abortWithError(c, http.StatusNotFound, shared.ErrTenantNotFound.Code, shared.ErrTenantNotFound.Message)
				return
			}
			logger.Enrich(c.Request.Context(), log).Error("Failed to resolve tenant", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Errore interno del server")
			return
		}

		if !isReadOnly(c.Request.Method) && !tc.SubscriptionStatus.AllowsWrites() {
			abortWithError(c, http.StatusForbidden, "SUBSCRIPTION_INACTIVE", "L'abbonamento dello studio non è attivo: i dati sono in sola lettura")
			return
		}

		employeeID := ""
		if tc.EmployeeID != nil {
			employeeID = tc.EmployeeID.String()
		}
		ctx := identity.WithTenantContext(c.Request.Context(), tc)
		ctx = logger.WithActor(ctx, tc.TenantID.String(), tc.UserID.String(), employeeID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(TenantContextKey, tc)
		c.Set(logger.GinTenantIDKey, tc.TenantID.String())
		annotateSpan(c, tc)

		c.Next()
	}
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// GetTenantContext retrieves the resolved TenantContext from gin.Context
func GetTenantContext(c *gin.Context) (identity.TenantContext, bool) {
	if v, exists := c.Get(TenantContextKey); exists {
		if tc, ok := v.(identity.TenantContext); ok {
			return tc, true
		}
	}
	return identity.TenantContextFrom(c.Request.Context())
}
