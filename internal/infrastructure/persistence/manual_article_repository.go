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
)

// GormArticleRepository implements manual.ArticleRepository using GORM.
// Revisions live in their own table and are only ever inserted.
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindByIDForTenant finds an article by ID within a tenant
func (r *GormArticleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*manual.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds an article by its slug within a tenant
func (r *GormArticleRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*manual.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("slug = ?", slug).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists articles with pagination and filters
func (r *GormArticleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter manual.ArticleFilter) ([]manual.Article, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ArticleModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsTemplate != nil {
		query = query.Where("is_template = ?", *filter.IsTemplate)
	}
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}

	return r.findPage(query, filter.Filter)
}

// Search matches published articles by title or content, newest first
func (r *GormArticleRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]manual.Article, error) {
	if limit <= 0 || limit > manual.SearchLimit {
		limit = manual.SearchLimit
	}
	pattern := likePattern(query)

	var rows []models.ArticleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("status = ?", manual.ArticlePublished).
		Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toArticles(rows), nil
}

// FindPendingForEmployee lists published articles without an acknowledgment
// from the employee at the article's current version
func (r *GormArticleRepository) FindPendingForEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]manual.Article, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("status = ?", manual.ArticlePublished).
		Where(`NOT EXISTS (
			SELECT 1 FROM manual_acknowledgments k
			WHERE k.article_id = manual_articles.id
			  AND k.employee_id = ?
			  AND k.article_version = manual_articles.version)`, employeeID)

	return r.findPage(query, filter)
}

func (r *GormArticleRepository) findPage(query *gorm.DB, filter shared.Filter) ([]manual.Article, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ArticleModel
	if err := paginate(query, filter, ArticleSortFields, "updated_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toArticles(rows), total, nil
}

// ExistsBySlug checks if the slug is taken within the tenant
func (r *GormArticleRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByCategory counts articles in any status referencing the category
func (r *GormArticleRepository) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountPublished counts published articles of a tenant
func (r *GormArticleRepository) CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("status = ?", manual.ArticlePublished).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the article and its first revision in one transaction
func (r *GormArticleRepository) Create(ctx context.Context, article *manual.Article, initial *manual.Revision) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ArticleModelFromDomain(article)).Error; err != nil {
			return err
		}
		return tx.Create(models.RevisionModelFromDomain(initial)).Error
	}))
}

// Update writes the article guarded by expectedVersion and, when revision is
// non-nil, appends it in the same transaction
func (r *GormArticleRepository) Update(ctx context.Context, article *manual.Article, expectedVersion int, revision *manual.Revision) error {
	m := models.ArticleModelFromDomain(article)

	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ArticleModel{}).
			Scopes(tenant.Scope(article.TenantID)).
			Where("id = ? AND version = ?", article.ID, expectedVersion).
			Updates(map[string]any{
				"category_id":  m.CategoryID,
				"title":        m.Title,
				"slug":         m.Slug,
				"content":      m.Content,
				"status":       m.Status,
				"is_template":  m.IsTemplate,
				"updated_by":   m.UpdatedBy,
				"published_at": m.PublishedAt,
				"version":      m.Version,
				"updated_at":   m.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		if revision == nil {
			return nil
		}
		return tx.Create(models.RevisionModelFromDomain(revision)).Error
	}))
}

// FindRevisions lists an article's revisions, newest first
func (r *GormArticleRepository) FindRevisions(ctx context.Context, tenantID, articleID uuid.UUID) ([]manual.Revision, error) {
	var rows []models.RevisionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("article_id = ?", articleID).
		Order("version DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	revisions := make([]manual.Revision, 0, len(rows))
	for i := range rows {
		revisions = append(revisions, *rows[i].ToDomain())
	}
	return revisions, nil
}

// FindRevision finds one revision of an article
func (r *GormArticleRepository) FindRevision(ctx context.Context, tenantID, articleID uuid.UUID, version int) (*manual.Revision, error) {
	var model models.RevisionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("article_id = ? AND version = ?", articleID, version).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func toArticles(rows []models.ArticleModel) []manual.Article {
	articles := make([]manual.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, *rows[i].ToDomain())
	}
	return articles
}

var _ manual.ArticleRepository = (*GormArticleRepository)(nil)
