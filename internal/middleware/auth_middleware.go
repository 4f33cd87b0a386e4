package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/pkg/auth"
	"github.com/yigit/admission/internal/pkg/session"
)

// Context keys set by SessionAuth
const (
	ContextPrincipal = "principal"
	ContextToken     = "sessionToken"
	ContextUserID    = "userID"
	ContextRoleType  = "roleType"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	sessions *session.Manager
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// SessionAuth resolves the bearer token to a principal
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Swagger UI sometimes puts the token in the query string
		if authHeader == "" {
			authHeader = c.Query("token")
		}

		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithReason("invalid_or_expired").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		token, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
				WithReason("invalid_or_expired").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		principal, err := m.sessions.Verify(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Set(ContextToken, token)
		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextRoleType, string(principal.Role))

		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the required roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ensure SessionAuth has run first
		principal, ok := GetPrincipal(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithReason("invalid_or_expired").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !slices.Contains(roles, principal.Role) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithReason("role_required").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the identity stored by SessionAuth
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(ContextPrincipal)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}

// GetSessionToken returns the raw token the request authenticated with
func GetSessionToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
