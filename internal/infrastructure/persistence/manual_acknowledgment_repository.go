package persistence

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/models"
	"github.com/dentalhr/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAcknowledgmentRepository implements manual.AcknowledgmentRepository using GORM
type GormAcknowledgmentRepository struct {
	db *gorm.DB
}

// NewGormAcknowledgmentRepository creates a new GormAcknowledgmentRepository
func NewGormAcknowledgmentRepository(db *gorm.DB) *GormAcknowledgmentRepository {
	return &GormAcknowledgmentRepository{db: db}
}

// Upsert inserts the acknowledgment or overwrites version, timestamp and signature
// of the existing (article, employee) row. ack.ID is set to the stored row's id.
func (r *GormAcknowledgmentRepository) Upsert(ctx context.Context, ack *manual.Acknowledgment) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"article_version", "acknowledged_at", "signature"}),
		}).Create(models.AcknowledgmentModelFromDomain(ack)).Error; err != nil {
			return err
		}

		var stored models.AcknowledgmentModel
		if err := tx.Where("article_id = ? AND employee_id = ?", ack.ArticleID, ack.EmployeeID).
			First(&stored).Error; err != nil {
			return err
		}
		ack.ID = stored.ID
		return nil
	}))
}

// FindByArticle lists acknowledgments of an article joined with the employee, most recent first
func (r *GormAcknowledgmentRepository) FindByArticle(ctx context.Context, tenantID, articleID uuid.UUID) ([]manual.AcknowledgmentView, error) {
	var rows []models.AcknowledgmentViewRow
	if err := r.db.WithContext(ctx).
		Table("manual_acknowledgments AS a").
		Select("a.*, e.first_name AS employee_first_name, e.last_name AS employee_last_name, e.email AS employee_email").
		Joins("JOIN employees e ON e.id = a.employee_id AND e.tenant_id = a.tenant_id").
		Scopes(tenant.ScopeTable("a", tenantID)).
		Where("a.article_id = ?", articleID).
		Order("a.acknowledged_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]manual.AcknowledgmentView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].ToDomain())
	}
	return views, nil
}

// CountForPublished counts acknowledgments attached to currently published articles
func (r *GormAcknowledgmentRepository) CountForPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("manual_acknowledgments AS a").
		Joins("JOIN manual_articles ar ON ar.id = a.article_id").
		Scopes(tenant.ScopeTable("a", tenantID)).
		Where("ar.status = ?", manual.ArticlePublished).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ manual.AcknowledgmentRepository = (*GormAcknowledgmentRepository)(nil)
