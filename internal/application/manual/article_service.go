package manual

import (
	"context"
	"errors"
	"strings"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/dentalhr/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var errDuplicateSlug = shared.NewDomainError("ALREADY_EXISTS", "Esiste già un articolo con questo slug")

// ArticleService handles manual articles and their revisions
type ArticleService struct {
	articleRepo     manual.ArticleRepository
	categoryRepo    manual.CategoryRepository
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo manual.ArticleRepository, categoryRepo manual.CategoryRepository, logger *zap.Logger) *ArticleService {
	return &ArticleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *ArticleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create writes a new article at version 1 together with its first revision
func (s *ArticleService) Create(ctx context.Context, tc identity.TenantContext, req CreateArticleRequest) (*ArticleResponse, error) {
	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, req.CategoryID); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	exists, err := s.articleRepo.ExistsBySlug(ctx, tc.TenantID, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errDuplicateSlug
	}

	article, err := manual.NewArticle(tc.TenantID, tc.UserID, req.CategoryID, req.Title, slug, req.Content)
	if err != nil {
		return nil, err
	}
	article.IsTemplate = req.IsTemplate
	if req.Status != nil {
		status := manual.ArticleStatus(*req.Status)
		if _, err := article.Apply(manual.ArticleChanges{Status: &status}, tc.UserID); err != nil {
			return nil, err
		}
	}

	if err := s.articleRepo.Create(ctx, article, article.Snapshot(manual.InitialRevisionNote, tc.UserID)); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errDuplicateSlug
		}
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Article created",
		zap.String("article_id", article.ID.String()),
		zap.String("slug", article.Slug),
		zap.String("status", string(article.Status)))
	s.businessMetrics.RecordArticleCreated(ctx, tc.TenantID, string(article.Status))

	resp := ToArticleResponse(article)
	return &resp, nil
}

// Get returns an article. Members without edit rights only see published articles.
func (s *ArticleService) Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := checkVisible(tc, article); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// GetBySlug returns an article by its tenant-unique slug
func (s *ArticleService) GetBySlug(ctx context.Context, tc identity.TenantContext, slug string) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindBySlug(ctx, tc.TenantID, slug)
	if err != nil {
		return nil, err
	}
	if err := checkVisible(tc, article); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// List returns a page of articles, newest update first
func (s *ArticleService) List(ctx context.Context, tc identity.TenantContext, filter ArticleListFilter) (*ArticleListResponse, error) {
	domainFilter := manual.ArticleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.Limit,
			OrderBy:  "updated_at",
			OrderDir: "desc",
		}.Normalize(),
		Status:     manual.ArticleStatus(filter.Status),
		IsTemplate: filter.IsTemplate,
	}
	if filter.CategoryID != "" {
		id, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Categoria non valida")
		}
		domainFilter.CategoryID = &id
	}
	if !tc.Role.CanEditContent() {
		if domainFilter.Status != "" && domainFilter.Status != manual.ArticlePublished {
			return toArticleList(nil, 0, domainFilter.Page, domainFilter.PageSize), nil
		}
		domainFilter.Status = manual.ArticlePublished
	}

	articles, total, err := s.articleRepo.FindAllForTenant(ctx, tc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	return toArticleList(articles, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Search matches published articles by title or content, at most manual.SearchLimit results
func (s *ArticleService) Search(ctx context.Context, tc identity.TenantContext, query string) (*ArticleListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.NewDomainError("INVALID_QUERY", "Il testo di ricerca è obbligatorio")
	}
	if len(query) > 200 {
		return nil, shared.NewDomainError("INVALID_QUERY", "Il testo di ricerca è troppo lungo")
	}

	articles, err := s.articleRepo.Search(ctx, tc.TenantID, query, manual.SearchLimit)
	if err != nil {
		return nil, err
	}
	return toArticleList(articles, int64(len(articles)), 1, manual.SearchLimit), nil
}

// Update applies a partial update. A content change bumps the version and
// writes a revision in the same transaction, guarded by the version read here.
func (s *ArticleService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req UpdateArticleRequest) (*ArticleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "article", "update", attribute.String("article_id", id.String()))
	defer span.End()

	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}
	article, err := s.articleRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil && *req.CategoryID != article.CategoryID {
		if _, err := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	changes := manual.ArticleChanges{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		IsTemplate: req.IsTemplate,
		ChangeNote: req.ChangeNote,
	}
	if req.Status != nil {
		status := manual.ArticleStatus(*req.Status)
		changes.Status = &status
	}

	expectedVersion := article.Version
	revision, err := article.Apply(changes, tc.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Update(ctx, article, expectedVersion, revision); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if revision != nil {
		logger.Enrich(ctx, s.logger).Info("Article revised",
			zap.String("article_id", article.ID.String()),
			zap.Int("version", article.Version))
		s.businessMetrics.RecordRevision(ctx, tc.TenantID)
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Archive soft-deletes an article; the row and its revisions are kept
func (s *ArticleService) Archive(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	if err := tc.RequireEditor(); err != nil {
		return err
	}
	article, err := s.articleRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return err
	}
	if article.Status == manual.ArticleArchived {
		return nil
	}
	expectedVersion := article.Version
	article.Archive(tc.UserID)
	return s.articleRepo.Update(ctx, article, expectedVersion, nil)
}

// ListRevisions returns every revision of an article, newest first
func (s *ArticleService) ListRevisions(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID) ([]RevisionResponse, error) {
	if _, err := s.Get(ctx, tc, articleID); err != nil {
		return nil, err
	}
	revisions, err := s.articleRepo.FindRevisions(ctx, tc.TenantID, articleID)
	if err != nil {
		return nil, err
	}
	out := make([]RevisionResponse, len(revisions))
	for i := range revisions {
		out[i] = ToRevisionResponse(&revisions[i])
	}
	return out, nil
}

// GetRevision returns one version of an article
func (s *ArticleService) GetRevision(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID, version int) (*RevisionResponse, error) {
	if _, err := s.Get(ctx, tc, articleID); err != nil {
		return nil, err
	}
	revision, err := s.articleRepo.FindRevision(ctx, tc.TenantID, articleID, version)
	if err != nil {
		return nil, err
	}
	resp := ToRevisionResponse(revision)
	return &resp, nil
}

// checkVisible hides unpublished articles from members who cannot edit them
func checkVisible(tc identity.TenantContext, article *manual.Article) error {
	if tc.Role.CanEditContent() || article.IsPublished() {
		return nil
	}
	return shared.ErrNotFound
}
