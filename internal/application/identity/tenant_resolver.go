package identity

import (
	"context"
	"errors"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantResolver turns an authenticated user into the TenantContext of a request
type TenantResolver struct {
	membershipRepo identity.MembershipRepository
	tenantRepo     identity.TenantRepository
	employeeRepo   identity.EmployeeRepository
}

// NewTenantResolver creates a new tenant resolver
func NewTenantResolver(
	membershipRepo identity.MembershipRepository,
	tenantRepo identity.TenantRepository,
	employeeRepo identity.EmployeeRepository,
) *TenantResolver {
	return &TenantResolver{
		membershipRepo: membershipRepo,
		tenantRepo:     tenantRepo,
		employeeRepo:   employeeRepo,
	}
}

// Resolve loads membership, practice and the optional employee record of a
// user. A user without membership gets shared.ErrTenantNotFound.
func (r *TenantResolver) Resolve(ctx context.Context, userID uuid.UUID) (identity.TenantContext, error) {
	membership, err := r.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.TenantContext{}, shared.ErrTenantNotFound
		}
		return identity.TenantContext{}, err
	}
	tenant, err := r.tenantRepo.FindByID(ctx, membership.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.TenantContext{}, shared.ErrTenantNotFound
		}
		return identity.TenantContext{}, err
	}

	tc := identity.TenantContext{
		TenantID:           tenant.ID,
		UserID:             userID,
		MembershipID:       membership.ID,
		Role:               membership.Role,
		SubscriptionStatus: tenant.SubscriptionStatus,
	}

	employee, err := r.employeeRepo.FindByUserID(ctx, tenant.ID, userID)
	switch {
	case err == nil:
		if employee.IsActive() {
			tc.EmployeeID = &employee.ID
		}
	case errors.Is(err, shared.ErrNotFound):
	default:
		return identity.TenantContext{}, err
	}
	return tc, nil
}
