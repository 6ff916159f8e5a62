package identity

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Tenant, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// FindByUserID returns the single membership of a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Membership, error)
	Save(ctx context.Context, membership *Membership) error
}

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	shared.Filter
	Status EmployeeStatus
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EmployeeFilter) ([]Employee, int64, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	Save(ctx context.Context, employee *Employee) error
}

// Registration groups the records created when a practice signs up
type Registration struct {
	User       *User
	Tenant     *Tenant
	Membership *Membership
	Employee   *Employee
}

// RegistrationRepository writes multi-record identity changes in one transaction
type RegistrationRepository interface {
	// Create persists user, tenant, owner membership and owner employee
	Create(ctx context.Context, reg *Registration) error
	// CreateEmployeeAccount persists a login account and membership for an employee
	CreateEmployeeAccount(ctx context.Context, user *User, membership *Membership, employee *Employee) error
}
