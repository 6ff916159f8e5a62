package manual

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCategoryRepository is a mock implementation of manual.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*manual.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manual.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]manual.Category, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]manual.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *manual.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Move(ctx context.Context, category *manual.Category, oldPath string, levelDelta int) error {
	args := m.Called(ctx, category, oldPath, levelDelta)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, tenantID, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Bool(0), args.Error(1)
}

// MockArticleRepository is a mock implementation of manual.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*manual.Article, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manual.Article), args.Error(1)
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*manual.Article, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manual.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter manual.ArticleFilter) ([]manual.Article, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]manual.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]manual.Article, error) {
	args := m.Called(ctx, tenantID, query, limit)
	return args.Get(0).([]manual.Article), args.Error(1)
}

func (m *MockArticleRepository) FindPendingForEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]manual.Article, int64, error) {
	args := m.Called(ctx, tenantID, employeeID, filter)
	return args.Get(0).([]manual.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, tenantID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) Create(ctx context.Context, article *manual.Article, initial *manual.Revision) error {
	args := m.Called(ctx, article, initial)
	return args.Error(0)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *manual.Article, expectedVersion int, revision *manual.Revision) error {
	args := m.Called(ctx, article, expectedVersion, revision)
	return args.Error(0)
}

func (m *MockArticleRepository) FindRevisions(ctx context.Context, tenantID, articleID uuid.UUID) ([]manual.Revision, error) {
	args := m.Called(ctx, tenantID, articleID)
	return args.Get(0).([]manual.Revision), args.Error(1)
}

func (m *MockArticleRepository) FindRevision(ctx context.Context, tenantID, articleID uuid.UUID, version int) (*manual.Revision, error) {
	args := m.Called(ctx, tenantID, articleID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manual.Revision), args.Error(1)
}

// MockAcknowledgmentRepository is a mock implementation of manual.AcknowledgmentRepository
type MockAcknowledgmentRepository struct {
	mock.Mock
}

func (m *MockAcknowledgmentRepository) Upsert(ctx context.Context, ack *manual.Acknowledgment) error {
	args := m.Called(ctx, ack)
	return args.Error(0)
}

func (m *MockAcknowledgmentRepository) FindByArticle(ctx context.Context, tenantID, articleID uuid.UUID) ([]manual.AcknowledgmentView, error) {
	args := m.Called(ctx, tenantID, articleID)
	return args.Get(0).([]manual.AcknowledgmentView), args.Error(1)
}

func (m *MockAcknowledgmentRepository) CountForPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockChecklistRepository is a mock implementation of manual.ChecklistRepository
type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*manual.Checklist, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manual.Checklist), args.Error(1)
}

func (m *MockChecklistRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter manual.ChecklistFilter) ([]manual.Checklist, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]manual.Checklist), args.Get(1).(int64), args.Error(2)
}

func (m *MockChecklistRepository) SaveWithItems(ctx context.Context, checklist *manual.Checklist) error {
	args := m.Called(ctx, checklist)
	return args.Error(0)
}

// MockExecutionRepository is a mock implementation of manual.ExecutionRepository
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Create(ctx context.Context, execution *manual.ChecklistExecution) error {
	args := m.Called(ctx, execution)
	return args.Error(0)
}

func (m *MockExecutionRepository) FindByChecklist(ctx context.Context, tenantID, checklistID uuid.UUID, filter shared.Filter) ([]manual.ChecklistExecution, int64, error) {
	args := m.Called(ctx, tenantID, checklistID, filter)
	return args.Get(0).([]manual.ChecklistExecution), args.Get(1).(int64), args.Error(2)
}

// MockEmployeeCounter is a mock implementation of ActiveEmployeeCounter
type MockEmployeeCounter struct {
	mock.Mock
}

func (m *MockEmployeeCounter) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

func editorContext() identity.TenantContext {
	return identity.TenantContext{
		TenantID:           uuid.New(),
		UserID:             uuid.New(),
		MembershipID:       uuid.New(),
		Role:               identity.RoleManager,
		SubscriptionStatus: identity.SubscriptionActive,
	}
}

func employeeContext(tenantID uuid.UUID) identity.TenantContext {
	employeeID := uuid.New()
	return identity.TenantContext{
		TenantID:           tenantID,
		UserID:             uuid.New(),
		MembershipID:       uuid.New(),
		Role:               identity.RoleEmployee,
		EmployeeID:         &employeeID,
		SubscriptionStatus: identity.SubscriptionActive,
	}
}

func newTestCategory(tenantID uuid.UUID, name string) *manual.Category {
	category, err := manual.NewCategory(tenantID, name, "")
	if err != nil {
		panic(err)
	}
	return category
}

func newTestArticle(tenantID, categoryID uuid.UUID, slug string, status manual.ArticleStatus) *manual.Article {
	article, err := manual.NewArticle(tenantID, uuid.New(), categoryID, "Sterilizzazione strumenti", slug, "<p>Procedura</p>")
	if err != nil {
		panic(err)
	}
	if status != manual.ArticleDraft {
		if _, err := article.Apply(manual.ArticleChanges{Status: &status}, uuid.New()); err != nil {
			panic(err)
		}
	}
	return article
}
