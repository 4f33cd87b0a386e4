package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/helpers"
	"github.com/yigit/admission/internal/pkg/metrics"
)

// ApprovalService drives the staff review state machine:
// pending -> approved | pending -> rejected, both terminal.
type ApprovalService struct {
	repos   *repositories.Repositories
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(repos *repositories.Repositories, m *metrics.Metrics, logger zerolog.Logger) *ApprovalService {
	return &ApprovalService{
		repos:   repos,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (s *ApprovalService) WithClock(now func() time.Time) *ApprovalService {
	s.now = now
	return s
}

// Approve finalizes a pending aspiration as approved
func (s *ApprovalService) Approve(ctx context.Context, principal models.Principal, aspirationID int64, notes *string) (*models.Aspiration, error) {
	if notes != nil {
		trimmed := strings.TrimSpace(*notes)
		notes = &trimmed
	}
	return s.decide(ctx, principal, aspirationID, models.AspirationApproved, notes)
}

// Reject finalizes a pending aspiration as rejected, storing the reason in notes
func (s *ApprovalService) Reject(ctx context.Context, principal models.Principal, aspirationID int64, reason string) (*models.Aspiration, error) {
	reason = strings.TrimSpace(reason)
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, apperrors.NewValidationError("reason", "Rejection reason is required")
	}
	return s.decide(ctx, principal, aspirationID, models.AspirationRejected, &reason)
}

func (s *ApprovalService) decide(ctx context.Context, principal models.Principal, aspirationID int64, status models.AspirationStatus, notes *string) (*models.Aspiration, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	if aspirationID <= 0 {
		return nil, apperrors.NewValidationError("id", "Aspiration ID must be positive")
	}

	aspiration, err := s.repos.AspirationRepository.Decide(ctx, models.Decision{
		AspirationID: aspirationID,
		Status:       status,
		ReviewerID:   principal.UserID,
		Notes:        notes,
		DecidedAt:    s.now().UTC(),
	})
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.NewNotFoundError(apperrors.ReasonAspirationNotFound, "Aspiration not found")
	case errors.Is(err, repositories.ErrAlreadyFinalized):
		return nil, apperrors.NewConflictError(apperrors.ReasonAlreadyFinalized, "Aspiration has already been reviewed")
	case err != nil:
		return nil, storageError("Failed to record decision", err)
	}

	s.metrics.Decision(string(status))
	s.logger.Info().
		Int64("aspirationID", aspirationID).
		Int64("reviewerID", principal.UserID).
		Str("status", string(status)).
		Msg("Aspiration reviewed")
	return aspiration, nil
}

// ListPending returns one page of the review queue, oldest first
func (s *ApprovalService) ListPending(ctx context.Context, principal models.Principal, page, size int) ([]*models.PendingAspiration, int64, error) {
	if err := requireStaff(principal); err != nil {
		return nil, 0, err
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.repos.AspirationRepository.ListPending(ctx, offset, limit)
	if err != nil {
		return nil, 0, storageError("Failed to list pending aspirations", err)
	}
	return items, total, nil
}

// ReviewStats summarizes aspirations, collected fees and the size of the
// candidate pool and catalog
func (s *ApprovalService) ReviewStats(ctx context.Context, principal models.Principal) (*models.ReviewStats, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	stats, err := s.repos.AspirationRepository.Stats(ctx, nil)
	if err != nil {
		return nil, storageError("Failed to count aspirations", err)
	}
	count, amount, err := s.repos.PaymentRepository.CompletedTotals(ctx)
	if err != nil {
		return nil, storageError("Failed to total payments", err)
	}
	candidates, err := s.repos.UserRepository.CountActiveCandidates(ctx)
	if err != nil {
		return nil, storageError("Failed to count candidates", err)
	}
	universities, err := s.repos.CatalogRepository.CountUniversities(ctx, true)
	if err != nil {
		return nil, storageError("Failed to count universities", err)
	}
	return &models.ReviewStats{
		Aspirations:       stats,
		CompletedPayments: count,
		CollectedAmount:   amount,
		ActiveCandidates:  candidates,
		Universities:      universities,
	}, nil
}
