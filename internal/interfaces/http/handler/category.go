package handler

import (
	"context"

	manualapp "github.com/dentalhr/backend/internal/application/manual"
	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryService is the category use-case surface used by CategoryHandler
type CategoryService interface {
	Create(ctx context.Context, tc identity.TenantContext, req manualapp.CreateCategoryRequest) (*manualapp.CategoryResponse, error)
	Tree(ctx context.Context, tc identity.TenantContext) ([]manualapp.CategoryTreeNode, error)
	Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.UpdateCategoryRequest) (*manualapp.CategoryResponse, error)
	Delete(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error
}

// CategoryHandler handles the manual category tree
type CategoryHandler struct {
	BaseHandler
	categories CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Tree handles GET /categories
func (h *CategoryHandler) Tree(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}

	tree, err := h.categories.Tree(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"categories": tree})
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var req manualapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.categories.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req manualapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.categories.Update(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
