package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
)

// HealthController reports liveness and storage reachability
type HealthController struct {
	storage repositories.Pinger
	logger  zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(storage repositories.Pinger, logger zerolog.Logger) *HealthController {
	return &HealthController{storage: storage, logger: logger}
}

// Health pings the storage backend
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.storage.Ping(pingCtx); err != nil {
		c.logger.Error().Err(err).Msg("Storage health check failed")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "storage": "down"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "up"})
}
