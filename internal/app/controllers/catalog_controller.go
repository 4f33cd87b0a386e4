package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/services"
	"github.com/yigit/admission/internal/middleware"
)

// CatalogController serves the public university, major and exam listings
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListUniversities godoc
// @Summary List universities
// @Description Active universities ordered by code
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.University}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities [get]
func (c *CatalogController) ListUniversities(ctx *gin.Context) {
	universities, err := c.catalogService.ListUniversities(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(universities, ""))
}

// ListMajors godoc
// @Summary List majors of a university
// @Tags catalog
// @Produce json
// @Param id path int true "University ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Major}
// @Failure 400 {object} dto.ErrorResponse "Invalid university id"
// @Failure 404 {object} dto.ErrorResponse "University not found"
// @Router /universities/{id}/majors [get]
func (c *CatalogController) ListMajors(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	majors, err := c.catalogService.ListMajors(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(majors, ""))
}

// ActiveExam godoc
// @Summary Active exam
// @Description The admission cycle currently accepting registrations
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Exam}
// @Failure 404 {object} dto.ErrorResponse "No active exam"
// @Router /exams/active [get]
func (c *CatalogController) ActiveExam(ctx *gin.Context) {
	exam, err := c.catalogService.ActiveExam(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exam, ""))
}
