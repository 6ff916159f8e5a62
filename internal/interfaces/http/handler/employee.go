package handler

import (
	"context"

	identityapp "github.com/dentalhr/backend/internal/application/identity"
	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployeeService is the staff registry surface used by EmployeeHandler
type EmployeeService interface {
	List(ctx context.Context, tc identity.TenantContext, filter identityapp.EmployeeListFilter) (*identityapp.EmployeeListResponse, error)
	Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*identityapp.EmployeeResponse, error)
	Create(ctx context.Context, tc identity.TenantContext, req identityapp.CreateEmployeeRequest) (*identityapp.EmployeeResponse, error)
	Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req identityapp.UpdateEmployeeRequest) (*identityapp.EmployeeResponse, error)
	Deactivate(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error
}

// EmployeeHandler handles the practice staff registry
type EmployeeHandler struct {
	BaseHandler
	employees EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List handles GET /employees
func (h *EmployeeHandler) List(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var filter identityapp.EmployeeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.employees.List(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	var req identityapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.employees.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.employees.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.employees.Update(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.employees.Deactivate(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
