package persistence

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/models"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements manual.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a tenant
func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*manual.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns all categories of a tenant
func (r *GormCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]manual.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("level ASC, sort_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]manual.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rows[i].ToDomain())
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *manual.Category) error {
	return translateError(r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error)
}

// Move saves the re-parented category and rewrites the materialized path prefix
// and level of every descendant in the same transaction
func (r *GormCategoryRepository) Move(ctx context.Context, category *manual.Category, oldPath string, levelDelta int) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.CategoryModelFromDomain(category)).Error; err != nil {
			return err
		}
		if oldPath == category.Path {
			return nil
		}
		return tx.Model(&models.CategoryModel{}).
			Scopes(tenant.Scope(category.TenantID)).
			Where("path LIKE ?", oldPath+"/%").
			Updates(map[string]any{
				"path":  gorm.Expr("REPLACE(path, ?, ?)", oldPath, category.Path),
				"level": gorm.Expr("level + ?", levelDelta),
			}).Error
	}))
}

// DeleteForTenant deletes a category within a tenant
func (r *GormCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// HasChildren checks if a category has any children
func (r *GormCategoryRepository) HasChildren(ctx context.Context, tenantID, categoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("parent_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ manual.CategoryRepository = (*GormCategoryRepository)(nil)
