package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/services"
	"github.com/yigit/admission/internal/middleware"
	"github.com/yigit/admission/internal/pkg/helpers"
)

// ApprovalController handles the staff review queue
type ApprovalController struct {
	approvalService *services.ApprovalService
}

// NewApprovalController creates a new ApprovalController
func NewApprovalController(approvalService *services.ApprovalService) *ApprovalController {
	return &ApprovalController{approvalService: approvalService}
}

// ListPending godoc
// @Summary Pending aspirations
// @Description Review queue, oldest registration first
// @Tags approval
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=[]models.PendingAspiration}
// @Failure 403 {object} dto.ErrorResponse "Staff only"
// @Router /manager/aspirations/pending [get]
func (c *ApprovalController) ListPending(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	items, total, err := c.approvalService.ListPending(ctx.Request.Context(), p, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(items, helpers.NewPaginationInfo(total, page, size)))
}

// Approve godoc
// @Summary Approve an aspiration
// @Tags approval
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Aspiration ID"
// @Param request body dto.ApproveRequest false "Reviewer notes"
// @Success 200 {object} dto.APIResponse{data=models.Aspiration}
// @Failure 404 {object} dto.ErrorResponse "Aspiration not found"
// @Failure 409 {object} dto.ErrorResponse "already_finalized"
// @Router /manager/aspirations/{id}/approve [post]
func (c *ApprovalController) Approve(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	// The body is optional
	var req dto.ApproveRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
	}

	aspiration, err := c.approvalService.Approve(ctx.Request.Context(), p, id, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(aspiration, "Aspiration approved"))
}

// Reject godoc
// @Summary Reject an aspiration
// @Tags approval
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Aspiration ID"
// @Param request body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=models.Aspiration}
// @Failure 400 {object} dto.ErrorResponse "Reason required"
// @Failure 404 {object} dto.ErrorResponse "Aspiration not found"
// @Failure 409 {object} dto.ErrorResponse "already_finalized"
// @Router /manager/aspirations/{id}/reject [post]
func (c *ApprovalController) Reject(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	aspiration, err := c.approvalService.Reject(ctx.Request.Context(), p, id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(aspiration, "Aspiration rejected"))
}

// Stats godoc
// @Summary Review dashboard counts
// @Tags approval
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.ReviewStats}
// @Router /manager/stats [get]
func (c *ApprovalController) Stats(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	stats, err := c.approvalService.ReviewStats(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
