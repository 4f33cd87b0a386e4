package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/metrics"
)

// transactionIDAttempts bounds retries when a generated id collides
const transactionIDAttempts = 3

// PaymentPolicy holds the fee configuration
type PaymentPolicy struct {
	AspirationFee int64
	Currency      string
	Methods       []string
}

// PaymentService owns the payment ledger rules
type PaymentService struct {
	repos   *repositories.Repositories
	policy  PaymentPolicy
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repos *repositories.Repositories, policy PaymentPolicy, m *metrics.Metrics, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		repos:   repos,
		policy:  policy,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

// Config returns the fee, currency and accepted methods
func (s *PaymentService) Config() models.PaymentConfig {
	return models.PaymentConfig{
		Fee:      s.policy.AspirationFee,
		Currency: s.policy.Currency,
		Methods:  slices.Clone(s.policy.Methods),
	}
}

// NewTransactionID builds "TXN" + timestamp + 8 random hex characters
func NewTransactionID(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate transaction suffix: %w", err)
	}
	return "TXN" + now.Format("20060102150405") + hex.EncodeToString(suffix), nil
}

// Create opens a pending payment for one of the caller's aspirations
func (s *PaymentService) Create(ctx context.Context, principal models.Principal, aspirationID int64, method string) (*models.Payment, error) {
	payment, err := s.create(ctx, principal, aspirationID, method)
	outcome := "ok"
	if err != nil {
		outcome = apperrors.ReasonOf(err)
	}
	s.metrics.Payment("create", outcome)
	return payment, err
}

func (s *PaymentService) create(ctx context.Context, principal models.Principal, aspirationID int64, method string) (*models.Payment, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return nil, err
	}
	method = strings.TrimSpace(method)
	if !slices.Contains(s.policy.Methods, method) {
		return nil, apperrors.NewValidationError("method",
			fmt.Sprintf("Payment method must be one of: %s", strings.Join(s.policy.Methods, ", ")))
	}

	aspiration, err := s.repos.AspirationRepository.GetByID(ctx, aspirationID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && aspiration.CandidateID != candidate.ID) {
		return nil, apperrors.NewNotFoundError(apperrors.ReasonAspirationNotFound, "Aspiration not found")
	}
	if err != nil {
		return nil, storageError("Failed to load aspiration", err)
	}
	if aspiration.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperrors.NewConflictError(apperrors.ReasonAlreadyPaid, "Aspiration is already paid")
	}

	for attempt := 1; ; attempt++ {
		now := s.now().UTC()
		txID, err := NewTransactionID(now)
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to generate transaction id", err)
		}

		payment := &models.Payment{
			CandidateID:   candidate.ID,
			ExamID:        aspiration.ExamID,
			AspirationID:  aspiration.ID,
			Amount:        s.policy.AspirationFee,
			Currency:      s.policy.Currency,
			Method:        method,
			TransactionID: txID,
			Status:        models.TransactionPending,
			CreatedAt:     now,
		}

		id, err := s.repos.PaymentRepository.Create(ctx, payment)
		switch {
		case err == nil:
			payment.ID = id
			s.logger.Info().
				Int64("paymentID", id).
				Int64("aspirationID", aspiration.ID).
				Str("transactionID", txID).
				Msg("Payment created")
			return payment, nil
		case errors.Is(err, repositories.ErrDuplicate) && attempt < transactionIDAttempts:
			s.logger.Warn().Str("transactionID", txID).Int("attempt", attempt).Msg("Transaction id collision, retrying")
			continue
		case errors.Is(err, repositories.ErrAlreadyPaid):
			return nil, apperrors.NewConflictError(apperrors.ReasonAlreadyPaid, "Aspiration is already paid")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewNotFoundError(apperrors.ReasonAspirationNotFound, "Aspiration not found")
		default:
			return nil, storageError("Failed to create payment", err)
		}
	}
}

// Verify completes a pending payment and marks its aspiration paid in one
// unit. Verifying an already completed payment returns it unchanged with
// applied=false. Candidates may only verify their own transactions.
func (s *PaymentService) Verify(ctx context.Context, principal models.Principal, transactionID string) (*models.Payment, bool, error) {
	payment, applied, err := s.verify(ctx, principal, transactionID)
	outcome := "noop"
	switch {
	case err != nil:
		outcome = apperrors.ReasonOf(err)
	case applied:
		outcome = "applied"
	}
	s.metrics.Payment("verify", outcome)
	return payment, applied, err
}

func (s *PaymentService) verify(ctx context.Context, principal models.Principal, transactionID string) (*models.Payment, bool, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, false, apperrors.NewValidationError("transactionId", "Transaction id is required")
	}
	if !principal.Role.Valid() {
		return nil, false, apperrors.NewForbiddenError("Unknown role")
	}

	existing, err := s.repos.PaymentRepository.GetByTransactionID(ctx, transactionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, apperrors.NewNotFoundError(apperrors.ReasonPaymentNotFound, "Payment not found")
	}
	if err != nil {
		return nil, false, storageError("Failed to load payment", err)
	}

	if principal.Role == models.RoleCandidate {
		candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
		if err != nil {
			return nil, false, err
		}
		if existing.CandidateID != candidate.ID {
			return nil, false, apperrors.NewNotFoundError(apperrors.ReasonPaymentNotFound, "Payment not found")
		}
	}

	payment, applied, err := s.repos.PaymentRepository.Complete(ctx, transactionID, s.now().UTC())
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, false, apperrors.NewNotFoundError(apperrors.ReasonPaymentNotFound, "Payment not found")
	case errors.Is(err, repositories.ErrAlreadyPaid):
		return nil, false, apperrors.NewConflictError(apperrors.ReasonAlreadyPaid, "Aspiration was already paid by another transaction")
	case err != nil:
		return nil, false, storageError("Failed to verify payment", err)
	}

	if applied {
		s.logger.Info().
			Str("transactionID", transactionID).
			Int64("aspirationID", payment.AspirationID).
			Msg("Payment verified")
	}
	return payment, applied, nil
}

// History lists the caller's payments, newest first
func (s *PaymentService) History(ctx context.Context, principal models.Principal) ([]*models.PaymentDetail, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.PaymentRepository.ListByCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, storageError("Failed to list payments", err)
	}
	return payments, nil
}
