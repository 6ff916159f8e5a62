package persistence

import (
	"context"
	"strings"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/models"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the employee record linked to a login account.
// Not every user has one; callers get shared.ErrEmployeeNotFound.
func (r *GormEmployeeRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*identity.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if err = translateError(err); err == shared.ErrNotFound {
			return nil, shared.ErrEmployeeNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists employees with pagination, search and status filter
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.EmployeeFilter) ([]identity.Employee, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			"LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmployeeModel
	if err := paginate(query, filter.Filter, EmployeeSortFields, "last_name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	employees := make([]identity.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, *rows[i].ToDomain())
	}
	return employees, total, nil
}

// CountActive counts active employees of a tenant
func (r *GormEmployeeRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("status = ?", identity.EmployeeActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks whether the tenant already has an employee with the email
func (r *GormEmployeeRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *identity.Employee) error {
	return translateError(r.db.WithContext(ctx).Save(models.EmployeeModelFromDomain(employee)).Error)
}

var _ identity.EmployeeRepository = (*GormEmployeeRepository)(nil)
