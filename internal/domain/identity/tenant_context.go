package identity

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantContext is the resolved identity of a request: who is calling and on
// behalf of which practice. It is built once per request from the
// authenticated user and the user's membership.
type TenantContext struct {
	TenantID           uuid.UUID
	UserID             uuid.UUID
	MembershipID       uuid.UUID
	Role               Role
	EmployeeID         *uuid.UUID
	SubscriptionStatus SubscriptionStatus
}

// RequireEditor fails unless the caller may write manual content
func (tc TenantContext) RequireEditor() error {
	if !tc.Role.CanEditContent() {
		return shared.ErrForbidden
	}
	return nil
}

// RequirePeopleManager fails unless the caller may manage employees
func (tc TenantContext) RequirePeopleManager() error {
	if !tc.Role.CanManagePeople() {
		return shared.ErrForbidden
	}
	return nil
}

// RequireEmployee returns the caller's employee id or ErrEmployeeNotFound
func (tc TenantContext) RequireEmployee() (uuid.UUID, error) {
	if tc.EmployeeID == nil {
		return uuid.Nil, shared.ErrEmployeeNotFound
	}
	return *tc.EmployeeID, nil
}

type tenantContextKey struct{}

// WithTenantContext stores tc in ctx
func WithTenantContext(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tc)
}

// TenantContextFrom returns the TenantContext stored in ctx
func TenantContextFrom(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey{}).(TenantContext)
	return tc, ok
}
