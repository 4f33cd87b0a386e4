package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/controllers"
	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/middleware"
	"github.com/yigit/admission/internal/pkg/metrics"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Catalog    *controllers.CatalogController
	Aspiration *controllers.AspirationController
	Payment    *controllers.PaymentController
	Approval   *controllers.ApprovalController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.RateLimiter,
	m *metrics.Metrics,
) {
	// Operational endpoints
	router.GET("/ping", c.Health.Ping)
	router.GET("/health", c.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Handler(), c.Auth.Login)
		auth.POST("/register", loginLimiter.Handler(), c.Auth.Register)
	}

	// --- Public catalog routes ---
	v1.GET("/universities", c.Catalog.ListUniversities)
	v1.GET("/universities/:id/majors", c.Catalog.ListMajors)
	v1.GET("/exams/active", c.Catalog.ActiveExam)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/auth/me", c.Auth.Me)

		// Candidate profile and aspiration list
		candidate := authenticated.Group("/candidate")
		candidate.Use(authMiddleware.RoleRequired(models.RoleCandidate))
		{
			candidate.PUT("/profile", c.User.UpdateProfile)
			candidate.GET("/aspirations", c.Aspiration.List)
			candidate.POST("/aspirations", c.Aspiration.Register)
			candidate.PUT("/aspirations/order", c.Aspiration.Reorder)
			candidate.GET("/aspirations/snapshot", c.Aspiration.Snapshot)
			candidate.DELETE("/aspirations/:id", c.Aspiration.Remove)
			candidate.GET("/stats", c.Aspiration.Stats)
		}

		// Payments: config and verify for any signed-in user, the rest for candidates
		payments := authenticated.Group("/payments")
		{
			payments.GET("/config", c.Payment.Config)
			payments.POST("/verify", c.Payment.Verify)

			candidatePayments := payments.Group("")
			candidatePayments.Use(authMiddleware.RoleRequired(models.RoleCandidate))
			{
				candidatePayments.POST("", c.Payment.Create)
				candidatePayments.GET("/history", c.Payment.History)
			}
		}

		// Staff review queue
		manager := authenticated.Group("/manager")
		manager.Use(authMiddleware.RoleRequired(models.RoleManager, models.RoleAdmin))
		{
			manager.GET("/aspirations/pending", c.Approval.ListPending)
			manager.POST("/aspirations/:id/approve", c.Approval.Approve)
			manager.POST("/aspirations/:id/reject", c.Approval.Reject)
			manager.GET("/stats", c.Approval.Stats)
		}
	}
}
