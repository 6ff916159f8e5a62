package handler

import (
	"context"
	"time"

	identityapp "github.com/dentalhr/backend/internal/application/identity"
	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/dentalhr/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthService is the session surface used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.RegisterResponse, error)
	Login(ctx context.Context, req identityapp.LoginRequest) (*auth.TokenPair, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*auth.TokenPair, error)
	Logout(ctx context.Context, jti string, ttl time.Duration) error
	Me(ctx context.Context, tc identity.TenantContext) (*identityapp.MeResponse, error)
}

// AuthHandler handles registration and session endpoints
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Logout handles POST /auth/logout. The access token stays revoked for
// the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.ID, claims.RemainingTTL()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tc, ok := h.tenantContext(c)
	if !ok {
		return
	}

	resp, err := h.authService.Me(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
