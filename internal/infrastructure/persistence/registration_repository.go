package persistence

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRegistrationRepository writes the multi-table identity records atomically
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewGormRegistrationRepository creates a new GormRegistrationRepository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// Create inserts user, tenant, owner membership and owner employee in one transaction
func (r *GormRegistrationRepository) Create(ctx context.Context, reg *identity.Registration) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(reg.User)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.TenantModelFromDomain(reg.Tenant)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.MembershipModelFromDomain(reg.Membership)).Error; err != nil {
			return err
		}
		if reg.Employee != nil {
			if err := tx.Create(models.EmployeeModelFromDomain(reg.Employee)).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// CreateEmployeeAccount inserts a login account and its membership and links
// the existing employee to it, in one transaction
func (r *GormRegistrationRepository) CreateEmployeeAccount(ctx context.Context, user *identity.User, membership *identity.Membership, employee *identity.Employee) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.MembershipModelFromDomain(membership)).Error; err != nil {
			return err
		}
		return tx.Save(models.EmployeeModelFromDomain(employee)).Error
	}))
}

var _ identity.RegistrationRepository = (*GormRegistrationRepository)(nil)
