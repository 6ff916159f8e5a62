package manual

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SearchLimit caps full-text search results
const SearchLimit = 20

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByIDForTenant finds a category by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)

	// FindAllForTenant returns every category of a tenant, unordered
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Move saves a re-parented category and rewrites the path and level of its descendants
	Move(ctx context.Context, category *Category, oldPath string, levelDelta int) error

	// DeleteForTenant deletes a category within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, tenantID, categoryID uuid.UUID) (bool, error)
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	shared.Filter
	Status     ArticleStatus
	CategoryID *uuid.UUID
	IsTemplate *bool
}

// ArticleRepository defines the interface for article and revision persistence
type ArticleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Article, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Article, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ArticleFilter) ([]Article, int64, error)

	// Search matches query case-insensitively against title and content of
	// published articles, newest first, at most limit rows
	Search(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]Article, error)

	// FindPendingForEmployee lists published articles the employee has not
	// acknowledged at their current version
	FindPendingForEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]Article, int64, error)

	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error)
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)
	CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// Create inserts the article and its first revision in one transaction
	Create(ctx context.Context, article *Article, initial *Revision) error

	// Update writes the article only if its stored version still equals
	// expectedVersion, inserting revision in the same transaction when non-nil.
	// A lost race returns shared.ErrConcurrencyConflict.
	Update(ctx context.Context, article *Article, expectedVersion int, revision *Revision) error

	FindRevisions(ctx context.Context, tenantID, articleID uuid.UUID) ([]Revision, error)
	FindRevision(ctx context.Context, tenantID, articleID uuid.UUID, version int) (*Revision, error)
}

// AcknowledgmentRepository defines the interface for acknowledgment persistence
type AcknowledgmentRepository interface {
	// Upsert inserts or overwrites the acknowledgment of (article, employee)
	Upsert(ctx context.Context, ack *Acknowledgment) error

	// FindByArticle lists acknowledgments of an article, most recent first
	FindByArticle(ctx context.Context, tenantID, articleID uuid.UUID) ([]AcknowledgmentView, error)

	// CountForPublished counts acknowledgments attached to published articles
	CountForPublished(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ChecklistFilter narrows checklist listings
type ChecklistFilter struct {
	shared.Filter
	Frequency  Frequency
	ActiveOnly bool
}

// ChecklistRepository defines the interface for checklist persistence
type ChecklistRepository interface {
	// FindByIDForTenant loads a checklist with its items in order
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Checklist, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ChecklistFilter) ([]Checklist, int64, error)

	// SaveWithItems saves the checklist and replaces its items in one transaction
	SaveWithItems(ctx context.Context, checklist *Checklist) error
}

// ExecutionRepository defines the interface for checklist execution persistence
type ExecutionRepository interface {
	Create(ctx context.Context, execution *ChecklistExecution) error
	FindByChecklist(ctx context.Context, tenantID, checklistID uuid.UUID, filter shared.Filter) ([]ChecklistExecution, int64, error)
}
