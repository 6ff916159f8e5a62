package persistence

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByUserID returns the membership of a user. A user without one yields
// shared.ErrTenantNotFound.
func (r *GormMembershipRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if err = translateError(err); err == shared.ErrNotFound {
			return nil, shared.ErrTenantNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a membership
func (r *GormMembershipRepository) Save(ctx context.Context, membership *identity.Membership) error {
	return translateError(r.db.WithContext(ctx).Save(models.MembershipModelFromDomain(membership)).Error)
}

var _ identity.MembershipRepository = (*GormMembershipRepository)(nil)
