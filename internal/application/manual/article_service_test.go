package manual

import (
	"context"
	"testing"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newArticleServiceForTest() (*ArticleService, *MockArticleRepository, *MockCategoryRepository) {
	articles := new(MockArticleRepository)
	categories := new(MockCategoryRepository)
	return NewArticleService(articles, categories, zap.NewNop()), articles, categories
}

func TestArticleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates draft at version 1 with initial revision", func(t *testing.T) {
		svc, articles, categories := newArticleServiceForTest()
		tc := editorContext()
		category := newTestCategory(tc.TenantID, "Igiene")

		categories.On("FindByIDForTenant", ctx, tc.TenantID, category.ID).Return(category, nil)
		articles.On("ExistsBySlug", ctx, tc.TenantID, "sterilizzazione").Return(false, nil)
		articles.On("Create", ctx, mock.AnythingOfType("*manual.Article"), mock.MatchedBy(func(r *manual.Revision) bool {
			return r.Version == 1 && r.ChangeNote == manual.InitialRevisionNote
		})).Return(nil)

		resp, err := svc.Create(ctx, tc, CreateArticleRequest{
			Title:      "Sterilizzazione",
			Slug:       " sterilizzazione ",
			Content:    "<p>Autoclave</p>",
			CategoryID: category.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "sterilizzazione", resp.Slug)
		articles.AssertExpectations(t)
	})

	t.Run("can publish on creation", func(t *testing.T) {
		svc, articles, categories := newArticleServiceForTest()
		tc := editorContext()
		category := newTestCategory(tc.TenantID, "Igiene")
		published := "PUBLISHED"

		categories.On("FindByIDForTenant", ctx, tc.TenantID, category.ID).Return(category, nil)
		articles.On("ExistsBySlug", ctx, tc.TenantID, "rifiuti").Return(false, nil)
		articles.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, tc, CreateArticleRequest{
			Title: "Rifiuti", Slug: "rifiuti", Content: "x", CategoryID: category.ID, Status: &published,
		})

		require.NoError(t, err)
		assert.Equal(t, "PUBLISHED", resp.Status)
		assert.Equal(t, 1, resp.Version)
		assert.NotNil(t, resp.PublishedAt)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		svc, articles, categories := newArticleServiceForTest()
		tc := editorContext()
		category := newTestCategory(tc.TenantID, "Igiene")

		categories.On("FindByIDForTenant", ctx, tc.TenantID, category.ID).Return(category, nil)
		articles.On("ExistsBySlug", ctx, tc.TenantID, "dup").Return(true, nil)

		_, err := svc.Create(ctx, tc, CreateArticleRequest{Title: "A", Slug: "dup", Content: "x", CategoryID: category.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		articles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, _, categories := newArticleServiceForTest()
		tc := editorContext()
		categoryID := uuid.New()
		categories.On("FindByIDForTenant", ctx, tc.TenantID, categoryID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tc, CreateArticleRequest{Title: "A", Slug: "a", Content: "x", CategoryID: categoryID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("employees cannot create", func(t *testing.T) {
		svc, _, _ := newArticleServiceForTest()
		_, err := svc.Create(ctx, employeeContext(uuid.New()), CreateArticleRequest{Title: "A", Slug: "a", Content: "x", CategoryID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestArticleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("content change bumps version and writes revision", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		tc := editorContext()
		article := newTestArticle(tc.TenantID, uuid.New(), "protocollo", manual.ArticlePublished)
		content := "<p>Nuova procedura</p>"

		articles.On("FindByIDForTenant", mock.Anything, tc.TenantID, article.ID).Return(article, nil)
		articles.On("Update", mock.Anything, article, 1, mock.MatchedBy(func(r *manual.Revision) bool {
			return r != nil && r.Version == 2 && r.Content == content && r.ChangeNote == "Revisione annuale"
		})).Return(nil)

		resp, err := svc.Update(ctx, tc, article.ID, UpdateArticleRequest{Content: &content, ChangeNote: "Revisione annuale"})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Version)
		articles.AssertExpectations(t)
	})

	t.Run("title only keeps version", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		tc := editorContext()
		article := newTestArticle(tc.TenantID, uuid.New(), "protocollo", manual.ArticleDraft)
		title := "Nuovo titolo"

		articles.On("FindByIDForTenant", mock.Anything, tc.TenantID, article.ID).Return(article, nil)
		articles.On("Update", mock.Anything, article, 1, (*manual.Revision)(nil)).Return(nil)

		resp, err := svc.Update(ctx, tc, article.ID, UpdateArticleRequest{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, "Nuovo titolo", resp.Title)
	})

	t.Run("concurrent writer loses", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		tc := editorContext()
		article := newTestArticle(tc.TenantID, uuid.New(), "protocollo", manual.ArticleDraft)
		content := "changed"

		articles.On("FindByIDForTenant", mock.Anything, tc.TenantID, article.ID).Return(article, nil)
		articles.On("Update", mock.Anything, article, 1, mock.Anything).Return(shared.ErrConcurrencyConflict)

		_, err := svc.Update(ctx, tc, article.ID, UpdateArticleRequest{Content: &content})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("invalid transition", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		tc := editorContext()
		article := newTestArticle(tc.TenantID, uuid.New(), "protocollo", manual.ArticleArchived)
		status := "PUBLISHED"

		articles.On("FindByIDForTenant", mock.Anything, tc.TenantID, article.ID).Return(article, nil)

		_, err := svc.Update(ctx, tc, article.ID, UpdateArticleRequest{Status: &status})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", domainErr.Code)
		articles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestArticleService_Visibility(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("employee cannot read drafts", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		draft := newTestArticle(tenantID, uuid.New(), "bozza", manual.ArticleDraft)
		articles.On("FindByIDForTenant", ctx, tenantID, draft.ID).Return(draft, nil)

		_, err := svc.Get(ctx, employeeContext(tenantID), draft.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("employee reads published", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		published := newTestArticle(tenantID, uuid.New(), "pubblicato", manual.ArticlePublished)
		articles.On("FindBySlug", ctx, tenantID, "pubblicato").Return(published, nil)

		resp, err := svc.GetBySlug(ctx, employeeContext(tenantID), "pubblicato")
		require.NoError(t, err)
		assert.Equal(t, published.ID, resp.ID)
	})

	t.Run("employee listing is forced to published", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		articles.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f manual.ArticleFilter) bool {
			return f.Status == manual.ArticlePublished && f.PageSize == 20
		})).Return([]manual.Article{}, int64(0), nil)

		resp, err := svc.List(ctx, employeeContext(tenantID), ArticleListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Total)
		articles.AssertExpectations(t)
	})

	t.Run("employee asking for drafts gets nothing", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		resp, err := svc.List(ctx, employeeContext(tenantID), ArticleListFilter{Status: "DRAFT"})
		require.NoError(t, err)
		assert.Empty(t, resp.Articles)
		articles.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestArticleService_Search(t *testing.T) {
	ctx := context.Background()
	tc := editorContext()

	t.Run("empty query", func(t *testing.T) {
		svc, _, _ := newArticleServiceForTest()
		_, err := svc.Search(ctx, tc, "   ")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUERY", domainErr.Code)
	})

	t.Run("trims and limits", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		found := []manual.Article{*newTestArticle(tc.TenantID, uuid.New(), "autoclave", manual.ArticlePublished)}
		articles.On("Search", ctx, tc.TenantID, "autoclave", manual.SearchLimit).Return(found, nil)

		resp, err := svc.Search(ctx, tc, " autoclave ")
		require.NoError(t, err)
		assert.Len(t, resp.Articles, 1)
	})
}

func TestArticleService_Archive(t *testing.T) {
	ctx := context.Background()
	tc := editorContext()

	t.Run("archives", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		article := newTestArticle(tc.TenantID, uuid.New(), "vecchio", manual.ArticlePublished)
		articles.On("FindByIDForTenant", ctx, tc.TenantID, article.ID).Return(article, nil)
		articles.On("Update", ctx, article, 1, (*manual.Revision)(nil)).Return(nil)

		require.NoError(t, svc.Archive(ctx, tc, article.ID))
		assert.Equal(t, manual.ArticleArchived, article.Status)
	})

	t.Run("already archived is a no-op", func(t *testing.T) {
		svc, articles, _ := newArticleServiceForTest()
		article := newTestArticle(tc.TenantID, uuid.New(), "vecchio", manual.ArticleArchived)
		articles.On("FindByIDForTenant", ctx, tc.TenantID, article.ID).Return(article, nil)

		require.NoError(t, svc.Archive(ctx, tc, article.ID))
		articles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestArticleService_GetRevision(t *testing.T) {
	ctx := context.Background()
	tc := editorContext()
	svc, articles, _ := newArticleServiceForTest()
	article := newTestArticle(tc.TenantID, uuid.New(), "storico", manual.ArticleDraft)
	revision := article.Snapshot(manual.InitialRevisionNote, tc.UserID)

	articles.On("FindByIDForTenant", ctx, tc.TenantID, article.ID).Return(article, nil)
	articles.On("FindRevision", ctx, tc.TenantID, article.ID, 1).Return(revision, nil)
	articles.On("FindRevision", ctx, tc.TenantID, article.ID, 9).Return(nil, shared.ErrNotFound)

	resp, err := svc.GetRevision(ctx, tc, article.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, manual.InitialRevisionNote, resp.ChangeNote)

	_, err = svc.GetRevision(ctx, tc, article.ID, 9)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
