package persistence

import (
	"context"
	"strings"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/models"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChecklistRepository implements manual.ChecklistRepository using GORM
type GormChecklistRepository struct {
	db *gorm.DB
}

// NewGormChecklistRepository creates a new GormChecklistRepository
func NewGormChecklistRepository(db *gorm.DB) *GormChecklistRepository {
	return &GormChecklistRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// FindByIDForTenant loads a checklist with its items in order
func (r *GormChecklistRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*manual.Checklist, error) {
	var model models.ChecklistModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists checklists with their items
func (r *GormChecklistRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter manual.ChecklistFilter) ([]manual.Checklist, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ChecklistModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Frequency != "" {
		query = query.Where("frequency = ?", filter.Frequency)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ChecklistModel
	if err := paginate(query, filter.Filter, ChecklistSortFields, "title").
		Preload("Items", orderedItems).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	checklists := make([]manual.Checklist, 0, len(rows))
	for i := range rows {
		checklists = append(checklists, *rows[i].ToDomain())
	}
	return checklists, total, nil
}

// SaveWithItems saves the checklist and replaces its items in one transaction
func (r *GormChecklistRepository) SaveWithItems(ctx context.Context, checklist *manual.Checklist) error {
	model := models.ChecklistModelFromDomain(checklist)

	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("checklist_id = ?", model.ID).Delete(&models.ChecklistItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	}))
}

var _ manual.ChecklistRepository = (*GormChecklistRepository)(nil)

// GormExecutionRepository implements manual.ExecutionRepository using GORM
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GormExecutionRepository
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// Create inserts an execution record
func (r *GormExecutionRepository) Create(ctx context.Context, execution *manual.ChecklistExecution) error {
	return translateError(r.db.WithContext(ctx).Create(models.ChecklistExecutionModelFromDomain(execution)).Error)
}

// FindByChecklist lists executions of a checklist, newest first
func (r *GormExecutionRepository) FindByChecklist(ctx context.Context, tenantID, checklistID uuid.UUID, filter shared.Filter) ([]manual.ChecklistExecution, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.ChecklistExecutionModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("checklist_id = ?", checklistID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ChecklistExecutionModel
	if err := query.Order("executed_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	executions := make([]manual.ChecklistExecution, 0, len(rows))
	for i := range rows {
		executions = append(executions, *rows[i].ToDomain())
	}
	return executions, total, nil
}

var _ manual.ExecutionRepository = (*GormExecutionRepository)(nil)
