package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// DatabasePinger reports whether the database is reachable
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles the health endpoint
type SystemHandler struct {
	BaseHandler
	db DatabasePinger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabasePinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// HealthResponse represents the health check body
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health. A database outage answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unconfigured"})
		return
	}
	if err := h.db.Ping(ctx); err != nil {
		logger.L(c.Request.Context()).Warn("Health check: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "disconnected"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Database: "connected"})
}
