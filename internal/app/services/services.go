// Package services holds the admission business rules. Every operation takes
// the caller's models.Principal and checks its role itself, so the rules hold
// even when called without the HTTP layer.
package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/metrics"
	"github.com/yigit/admission/internal/pkg/session"
)

// Services bundles every service the routes need
type Services struct {
	Auth       *AuthService
	User       *UserService
	Catalog    *CatalogService
	Aspiration *AspirationService
	Payment    *PaymentService
	Approval   *ApprovalService
}

// Dependencies are the collaborators shared by all services
type Dependencies struct {
	Repos      *repositories.Repositories
	Sessions   *session.Manager
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
	Admission  AdmissionPolicy
	Payment    PaymentPolicy
	Clock      func() time.Time
	BcryptCost int
}

// NewServices wires every service over deps
func NewServices(deps Dependencies) *Services {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Services{
		Auth:       NewAuthService(deps.Repos.UserRepository, deps.Sessions, deps.Metrics, deps.Logger).WithBcryptCost(deps.BcryptCost),
		User:       NewUserService(deps.Repos.UserRepository, deps.Logger).WithClock(deps.Clock),
		Catalog:    NewCatalogService(deps.Repos.CatalogRepository),
		Aspiration: NewAspirationService(deps.Repos, deps.Admission, deps.Metrics, deps.Logger).WithClock(deps.Clock),
		Payment:    NewPaymentService(deps.Repos, deps.Payment, deps.Metrics, deps.Logger).WithClock(deps.Clock),
		Approval:   NewApprovalService(deps.Repos, deps.Metrics, deps.Logger).WithClock(deps.Clock),
	}
}

// requireRole returns a PermissionError unless the principal holds one of roles
func requireRole(p models.Principal, roles ...models.RoleType) error {
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return apperrors.NewForbiddenError("You don't have sufficient permissions for this operation")
}

func requireStaff(p models.Principal) error {
	return requireRole(p, models.RoleManager, models.RoleAdmin)
}

// storageError wraps an unexpected repository failure, passing typed errors through
func storageError(message string, err error) error {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return apperrors.NewInternalError(message, err)
}
