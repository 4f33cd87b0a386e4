package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/logger"
)

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindAuth:
		return http.StatusUnauthorized
	case apperrors.KindPermission:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorCodeFor(kind apperrors.Kind, reason string) dto.ErrorCode {
	switch kind {
	case apperrors.KindValidation:
		return dto.ErrorCodeValidationFailed
	case apperrors.KindAuth:
		if reason == apperrors.ReasonInvalidCredentials || reason == apperrors.ReasonAccountDisabled {
			return dto.ErrorCodeInvalidCredentials
		}
		return dto.ErrorCodeInvalidToken
	case apperrors.KindPermission:
		return dto.ErrorCodeForbidden
	case apperrors.KindNotFound:
		return dto.ErrorCodeResourceNotFound
	case apperrors.KindConflict:
		return dto.ErrorCodeConflict
	default:
		if reason == apperrors.ReasonStorageFailure {
			return dto.ErrorCodeDatabaseError
		}
		return dto.ErrorCodeInternalServer
	}
}

// HandleAPIError writes err as the standard error envelope. Internal causes
// are logged and never leak into the response body.
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	reason := apperrors.ReasonOf(err)
	status := StatusFor(kind)

	detail := dto.NewErrorDetail(errorCodeFor(kind, reason), err.Error()).WithReason(reason)

	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		if ce.Field != "" {
			detail = detail.WithField(ce.Field)
		}
		if len(ce.Details) > 0 {
			detail = detail.WithDetails(ce.Details)
		}
	}

	if kind == apperrors.KindInternal {
		if ce == nil {
			detail.Message = "Internal server error"
		}
		requestLogger(c).Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request failed")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// HandleBindError reports a request body that failed to bind or validate
func HandleBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if l, ok := c.Get(ContextLogger); ok {
		if zl, ok := l.(zerolog.Logger); ok {
			return &zl
		}
	}
	l := logger.Get()
	return &l
}
