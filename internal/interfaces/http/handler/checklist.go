package handler

import (
	"context"

	manualapp "github.com/dentalhr/backend/internal/application/manual"
	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChecklistService is the checklist use-case surface used by ChecklistHandler
type ChecklistService interface {
	Create(ctx context.Context, tc identity.TenantContext, req manualapp.CreateChecklistRequest) (*manualapp.ChecklistResponse, error)
	Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*manualapp.ChecklistResponse, error)
	List(ctx context.Context, tc identity.TenantContext, filter manualapp.ChecklistListFilter) (*manualapp.ChecklistListResponse, error)
	Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.UpdateChecklistRequest) (*manualapp.ChecklistResponse, error)
	Deactivate(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error
	Execute(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.ExecuteChecklistRequest) (*manualapp.ExecutionResponse, error)
	ListExecutions(ctx context.Context, tc identity.TenantContext, id uuid.UUID, page manualapp.PageRequest) (*manualapp.ExecutionListResponse, error)
}

// ChecklistHandler handles operational checklists and their executions
type ChecklistHandler struct {
	BaseHandler
	checklists ChecklistService
}

// NewChecklistHandler creates a new ChecklistHandler
func NewChecklistHandler(checklists ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklists: checklists}
}

// List handles GET /checklists
func (h *ChecklistHandler) List(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var filter manualapp.ChecklistListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.checklists.List(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /checklists
func (h *ChecklistHandler) Create(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var req manualapp.CreateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.checklists.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /checklists/:id
func (h *ChecklistHandler) Get(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.checklists.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /checklists/:id
func (h *ChecklistHandler) Update(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req manualapp.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.checklists.Update(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /checklists/:id. Checklists are deactivated so their
// executions stay readable.
func (h *ChecklistHandler) Delete(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.checklists.Deactivate(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Execute handles POST /checklists/:id/execute
func (h *ChecklistHandler) Execute(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req manualapp.ExecuteChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.checklists.Execute(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListExecutions handles GET /checklists/:id/executions
func (h *ChecklistHandler) ListExecutions(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var page manualapp.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.checklists.ListExecutions(c.Request.Context(), tc, id, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
