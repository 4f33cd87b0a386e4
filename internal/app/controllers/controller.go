// Package controllers handles HTTP request handling
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/middleware"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

// principal returns the authenticated caller, writing a 401 when absent
func principal(ctx *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewAuthError(apperrors.ReasonInvalidOrExpired, "Authentication required"))
		return models.Principal{}, false
	}
	return p, true
}

// parseIDParam reads a positive int64 path parameter, writing a 400 when invalid
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name, "Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// parseIDQuery reads an optional positive int64 query value; absent means 0
func parseIDQuery(ctx *gin.Context, name string) (int64, bool) {
	raw, present := ctx.GetQuery(name)
	if !present || raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name, "Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// reasonOf names a failure for log lines
func reasonOf(err error) string {
	if reason := apperrors.ReasonOf(err); reason != "" {
		return reason
	}
	return string(apperrors.KindOf(err))
}
