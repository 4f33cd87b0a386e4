package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/middleware"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

// HealthController reports liveness and storage reachability
type HealthController struct {
	ping func(context.Context) error
}

// NewHealthController creates a new HealthController
func NewHealthController(ping func(context.Context) error) *HealthController {
	return &HealthController{ping: ping}
}

// Ping godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health godoc
// @Summary Readiness check
// @Description Checks that storage answers within two seconds
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 500 {object} dto.ErrorResponse "Storage unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if c.ping != nil {
		if err := c.ping(pingCtx); err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewInternalError("Storage unreachable", err))
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
}
