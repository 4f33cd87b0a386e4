package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/services"
	"github.com/yigit/admission/internal/middleware"
)

// AspirationController handles the candidate's aspiration list
type AspirationController struct {
	aspirationService *services.AspirationService
	logger            zerolog.Logger
}

// NewAspirationController creates a new AspirationController
func NewAspirationController(aspirationService *services.AspirationService, logger zerolog.Logger) *AspirationController {
	return &AspirationController{
		aspirationService: aspirationService,
		logger:            logger,
	}
}

// List godoc
// @Summary List my aspirations
// @Description The caller's aspirations ordered by priority
// @Tags aspirations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AspirationDetail}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Candidates only"
// @Router /candidate/aspirations [get]
func (c *AspirationController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	aspirations, err := c.aspirationService.List(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(aspirations, ""))
}

// Register godoc
// @Summary Register an aspiration
// @Description Adds a ranked preference for a university major. The active exam is used when examId is omitted.
// @Tags aspirations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterAspirationRequest true "Aspiration"
// @Success 201 {object} dto.APIResponse{data=models.Aspiration}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Exam, university or major not found"
// @Failure 409 {object} dto.ErrorResponse "slot_taken, quota_exceeded or exam_not_active"
// @Router /candidate/aspirations [post]
func (c *AspirationController) Register(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.RegisterAspirationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	aspiration, err := c.aspirationService.Register(ctx.Request.Context(), p, &req)
	if err != nil {
		c.logger.Debug().Int64("userID", p.UserID).Str("reason", reasonOf(err)).Msg("Aspiration registration refused")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(aspiration, "Aspiration registered"))
}

// Remove godoc
// @Summary Remove an aspiration
// @Description Deletes a pending aspiration that has no payments
// @Tags aspirations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Aspiration ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Aspiration not found"
// @Failure 409 {object} dto.ErrorResponse "already_finalized or has_payments"
// @Router /candidate/aspirations/{id} [delete]
func (c *AspirationController) Remove(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.aspirationService.Remove(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Aspiration removed"))
}

// Reorder godoc
// @Summary Reorder aspirations
// @Description Applies all priority changes or none
// @Tags aspirations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReorderAspirationsRequest true "Priority changes"
// @Success 200 {object} dto.APIResponse{data=[]models.AspirationDetail}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Aspiration not found"
// @Failure 409 {object} dto.ErrorResponse "priority_collision"
// @Router /candidate/aspirations/order [put]
func (c *AspirationController) Reorder(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.ReorderAspirationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	changes := make([]models.PriorityChange, 0, len(req.Changes))
	for _, item := range req.Changes {
		changes = append(changes, models.PriorityChange{AspirationID: item.AspirationID, Priority: item.Priority})
	}

	aspirations, err := c.aspirationService.Reorder(ctx.Request.Context(), p, changes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(aspirations, "Priorities updated"))
}

// Snapshot godoc
// @Summary Aspiration snapshot
// @Description Profile, aspirations and payment totals for one exam, for printing or export.
// @Description Without examId the exam of the newest aspiration is used.
// @Tags aspirations
// @Produce json
// @Security BearerAuth
// @Param examId query int false "Exam ID"
// @Success 200 {object} dto.APIResponse{data=models.AspirationSnapshot}
// @Failure 404 {object} dto.ErrorResponse "exam_not_found"
// @Router /candidate/aspirations/snapshot [get]
func (c *AspirationController) Snapshot(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	examID, ok := parseIDQuery(ctx, "examId")
	if !ok {
		return
	}

	snapshot, err := c.aspirationService.Snapshot(ctx.Request.Context(), p, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(snapshot, ""))
}

// Stats godoc
// @Summary My aspiration counts
// @Tags aspirations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.AspirationStats}
// @Router /candidate/stats [get]
func (c *AspirationController) Stats(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	stats, err := c.aspirationService.Stats(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
