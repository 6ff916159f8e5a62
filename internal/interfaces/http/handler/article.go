package handler

import (
	"context"

	manualapp "github.com/dentalhr/backend/internal/application/manual"
	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ArticleService is the article use-case surface used by ArticleHandler
type ArticleService interface {
	Create(ctx context.Context, tc identity.TenantContext, req manualapp.CreateArticleRequest) (*manualapp.ArticleResponse, error)
	Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*manualapp.ArticleResponse, error)
	GetBySlug(ctx context.Context, tc identity.TenantContext, slug string) (*manualapp.ArticleResponse, error)
	List(ctx context.Context, tc identity.TenantContext, filter manualapp.ArticleListFilter) (*manualapp.ArticleListResponse, error)
	Search(ctx context.Context, tc identity.TenantContext, query string) (*manualapp.ArticleListResponse, error)
	Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.UpdateArticleRequest) (*manualapp.ArticleResponse, error)
	Archive(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error
	ListRevisions(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID) ([]manualapp.RevisionResponse, error)
	GetRevision(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID, version int) (*manualapp.RevisionResponse, error)
}

// AcknowledgmentService is the read-receipt use-case surface used by ArticleHandler
type AcknowledgmentService interface {
	Acknowledge(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID, req manualapp.AcknowledgeRequest) (*manualapp.AcknowledgmentResponse, error)
	ListForArticle(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID) ([]manualapp.AcknowledgmentResponse, error)
	Pending(ctx context.Context, tc identity.TenantContext, page manualapp.PageRequest) (*manualapp.ArticleListResponse, error)
	Stats(ctx context.Context, tc identity.TenantContext) (*manualapp.StatsResponse, error)
}

// ArticleHandler handles manual articles, their revisions and acknowledgments
type ArticleHandler struct {
	BaseHandler
	articles ArticleService
	acks     AcknowledgmentService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articles ArticleService, acks AcknowledgmentService) *ArticleHandler {
	return &ArticleHandler{articles: articles, acks: acks}
}

// SearchQuery represents the query string of GET /articles/search
type SearchQuery struct {
	Q string `form:"q" binding:"required,max=200"`
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var filter manualapp.ArticleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.articles.List(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var req manualapp.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.articles.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Search handles GET /articles/search?q=
func (h *ArticleHandler) Search(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.articles.Search(c.Request.Context(), tc, q.Q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Pending handles GET /articles/pending
func (h *ArticleHandler) Pending(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var page manualapp.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.acks.Pending(c.Request.Context(), tc, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBySlug handles GET /articles/slug/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}

	resp, err := h.articles.GetBySlug(c.Request.Context(), tc, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.articles.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req manualapp.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.articles.Update(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /articles/:id. Articles are archived, never removed.
func (h *ArticleHandler) Delete(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.articles.Archive(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListRevisions handles GET /articles/:id/revisions
func (h *ArticleHandler) ListRevisions(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.articles.ListRevisions(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"revisions": resp})
}

// GetRevision handles GET /articles/:id/revisions/:version
func (h *ArticleHandler) GetRevision(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	version, ok := h.pathInt(c, "version")
	if !ok {
		return
	}

	resp, err := h.articles.GetRevision(c.Request.Context(), tc, id, version)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Acknowledge handles POST /articles/:id/acknowledge
func (h *ArticleHandler) Acknowledge(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req manualapp.AcknowledgeRequest
	// the body is optional
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	resp, err := h.acks.Acknowledge(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListAcknowledgments handles GET /articles/:id/acknowledgments
func (h *ArticleHandler) ListAcknowledgments(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.acks.ListForArticle(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"acknowledgments": resp})
}

// Stats handles GET /manual/stats
func (h *ArticleHandler) Stats(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}

	resp, err := h.acks.Stats(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
