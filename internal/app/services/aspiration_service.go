package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/keylock"
	"github.com/yigit/admission/internal/pkg/metrics"
)

// AdmissionPolicy holds the registration limits
type AdmissionPolicy struct {
	MaxAspirationsPerExam int
	EnforceQuota          bool
	MaxPriority           int
}

type registrationScope struct {
	candidateID int64
	examID      int64
}

// AspirationService owns the aspiration ledger rules
type AspirationService struct {
	repos   *repositories.Repositories
	policy  AdmissionPolicy
	locks   *keylock.Locker[registrationScope]
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAspirationService creates a new AspirationService
func NewAspirationService(repos *repositories.Repositories, policy AdmissionPolicy, m *metrics.Metrics, logger zerolog.Logger) *AspirationService {
	if policy.MaxPriority <= 0 {
		policy.MaxPriority = 10
	}
	return &AspirationService{
		repos:   repos,
		policy:  policy,
		locks:   keylock.New[registrationScope](),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (s *AspirationService) WithClock(now func() time.Time) *AspirationService {
	s.now = now
	return s
}

// candidateFor resolves the candidate profile of a candidate principal
func candidateFor(ctx context.Context, users repositories.IUserRepository, p models.Principal) (*models.Candidate, error) {
	if err := requireRole(p, models.RoleCandidate); err != nil {
		return nil, err
	}
	candidate, err := users.GetCandidateByUserID(ctx, p.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ReasonCandidateNotFound, "Candidate profile not found")
	}
	if err != nil {
		return nil, storageError("Failed to load candidate profile", err)
	}
	return candidate, nil
}

func (s *AspirationService) resolveExam(ctx context.Context, examID *int64) (*models.Exam, error) {
	var (
		exam *models.Exam
		err  error
	)
	if examID != nil {
		exam, err = s.repos.CatalogRepository.GetExamByID(ctx, *examID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.ReasonExamNotFound, "Exam not found")
		}
	} else {
		exam, err = s.repos.CatalogRepository.GetActiveExam(ctx)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.ReasonNoActiveExam, "No exam is open for registration")
		}
	}
	if err != nil {
		return nil, storageError("Failed to load exam", err)
	}
	if exam.Status != models.ExamActive {
		return nil, apperrors.NewConflictError(apperrors.ReasonExamNotActive, fmt.Sprintf("Exam %s is not open for registration", exam.Code))
	}
	return exam, nil
}

func (s *AspirationService) checkProgram(ctx context.Context, universityID, majorID int64) error {
	university, err := s.repos.CatalogRepository.GetUniversityByID(ctx, universityID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && !university.IsActive) {
		return apperrors.NewNotFoundError(apperrors.ReasonUniversityNotFound, "University not found")
	}
	if err != nil {
		return storageError("Failed to load university", err)
	}

	major, err := s.repos.CatalogRepository.GetMajorByID(ctx, majorID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && major.UniversityID != universityID) {
		return apperrors.NewNotFoundError(apperrors.ReasonMajorNotFound, "Major not found at this university")
	}
	if err != nil {
		return storageError("Failed to load major", err)
	}
	return nil
}

// Register adds a ranked preference for the calling candidate. Registrations
// for the same (candidate, exam) are serialized so the quota check and insert
// see a consistent count; the slot itself is guarded by the storage constraint.
func (s *AspirationService) Register(ctx context.Context, principal models.Principal, req *dto.RegisterAspirationRequest) (*models.Aspiration, error) {
	aspiration, err := s.register(ctx, principal, req)
	outcome := "ok"
	if err != nil {
		outcome = apperrors.ReasonOf(err)
		if outcome == "" {
			outcome = string(apperrors.KindOf(err))
		}
	}
	s.metrics.Registration(outcome)
	return aspiration, err
}

func (s *AspirationService) register(ctx context.Context, principal models.Principal, req *dto.RegisterAspirationRequest) (*models.Aspiration, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return nil, err
	}
	if req.Priority < 1 || req.Priority > s.policy.MaxPriority {
		return nil, apperrors.NewValidationError("priority", fmt.Sprintf("Priority must be between 1 and %d", s.policy.MaxPriority))
	}

	exam, err := s.resolveExam(ctx, req.ExamID)
	if err != nil {
		return nil, err
	}
	if err := s.checkProgram(ctx, req.UniversityID, req.MajorID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(registrationScope{candidateID: candidate.ID, examID: exam.ID})
	defer unlock()

	if s.policy.EnforceQuota && s.policy.MaxAspirationsPerExam > 0 {
		count, err := s.repos.AspirationRepository.CountByCandidateExam(ctx, candidate.ID, exam.ID)
		if err != nil {
			return nil, storageError("Failed to count aspirations", err)
		}
		if count >= s.policy.MaxAspirationsPerExam {
			return nil, apperrors.NewConflictError(apperrors.ReasonQuotaExceeded,
				fmt.Sprintf("At most %d aspirations may be registered for one exam", s.policy.MaxAspirationsPerExam))
		}
	}

	aspiration := &models.Aspiration{
		CandidateID:   candidate.ID,
		ExamID:        exam.ID,
		UniversityID:  req.UniversityID,
		MajorID:       req.MajorID,
		Priority:      req.Priority,
		Status:        models.AspirationPending,
		PaymentStatus: models.PaymentStatusPending,
		RegisteredAt:  s.now().UTC(),
	}

	id, err := s.repos.AspirationRepository.Create(ctx, aspiration)
	switch {
	case errors.Is(err, repositories.ErrSlotTaken):
		return nil, apperrors.NewConflictError(apperrors.ReasonSlotTaken,
			fmt.Sprintf("Priority %d is already used for this exam", req.Priority))
	case errors.Is(err, repositories.ErrPriorityRange):
		return nil, apperrors.NewValidationError("priority", "Priority out of range")
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.NewNotFoundError(apperrors.ReasonMajorNotFound, "Referenced exam, university or major no longer exists")
	case err != nil:
		return nil, storageError("Failed to register aspiration", err)
	}
	aspiration.ID = id

	s.logger.Info().
		Int64("aspirationID", id).
		Int64("candidateID", candidate.ID).
		Int64("examID", exam.ID).
		Int("priority", req.Priority).
		Msg("Aspiration registered")
	return aspiration, nil
}

// Remove deletes a pending, unpaid aspiration owned by the caller
func (s *AspirationService) Remove(ctx context.Context, principal models.Principal, aspirationID int64) error {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return err
	}

	err = s.repos.AspirationRepository.Delete(ctx, aspirationID, candidate.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewNotFoundError(apperrors.ReasonAspirationNotFound, "Aspiration not found")
	case errors.Is(err, repositories.ErrAlreadyFinalized):
		return apperrors.NewConflictError(apperrors.ReasonAlreadyFinalized, "Reviewed aspirations cannot be removed")
	case errors.Is(err, repositories.ErrHasPayments):
		return apperrors.NewConflictError(apperrors.ReasonHasPayments, "Aspirations with payments cannot be removed")
	case err != nil:
		return storageError("Failed to remove aspiration", err)
	}

	s.logger.Info().Int64("aspirationID", aspirationID).Int64("candidateID", candidate.ID).Msg("Aspiration removed")
	return nil
}

// Reorder applies a batch of priority changes to the caller's aspirations, all or none
func (s *AspirationService) Reorder(ctx context.Context, principal models.Principal, changes []models.PriorityChange) ([]*models.AspirationDetail, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, apperrors.NewValidationError("changes", "At least one priority change is required")
	}

	err = s.repos.AspirationRepository.Reorder(ctx, candidate.ID, changes, s.policy.MaxPriority)
	if err != nil {
		var re *repositories.ReorderError
		id := int64(0)
		if errors.As(err, &re) {
			id = re.AspirationID
		}
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewNotFoundError(apperrors.ReasonAspirationNotFound, fmt.Sprintf("Aspiration %d not found", id)).
				WithDetails(map[string]interface{}{"aspirationId": id})
		case errors.Is(err, repositories.ErrPriorityRange):
			return nil, apperrors.NewValidationError("priority", fmt.Sprintf("Priority must be between 1 and %d", s.policy.MaxPriority)).
				WithDetails(map[string]interface{}{"aspirationId": id})
		case errors.Is(err, repositories.ErrPriorityCollision):
			return nil, apperrors.NewConflictError(apperrors.ReasonPriorityCollision, "Priorities would collide after reordering").
				WithDetails(map[string]interface{}{"aspirationId": id})
		default:
			return nil, storageError("Failed to reorder aspirations", err)
		}
	}

	s.logger.Info().Int64("candidateID", candidate.ID).Int("changes", len(changes)).Msg("Aspirations reordered")
	return s.listFor(ctx, candidate.ID)
}

// List returns the caller's aspirations ordered by priority
func (s *AspirationService) List(ctx context.Context, principal models.Principal) ([]*models.AspirationDetail, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return nil, err
	}
	return s.listFor(ctx, candidate.ID)
}

func (s *AspirationService) listFor(ctx context.Context, candidateID int64) ([]*models.AspirationDetail, error) {
	aspirations, err := s.repos.AspirationRepository.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, storageError("Failed to list aspirations", err)
	}
	return aspirations, nil
}

// Stats counts the caller's aspirations by review and payment state
func (s *AspirationService) Stats(ctx context.Context, principal models.Principal) (models.AspirationStats, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return models.AspirationStats{}, err
	}
	stats, err := s.repos.AspirationRepository.Stats(ctx, &candidate.ID)
	if err != nil {
		return models.AspirationStats{}, storageError("Failed to count aspirations", err)
	}
	return stats, nil
}

// Snapshot bundles everything an export or print view needs about the caller
// for one exam. A zero examID picks the exam of the newest aspiration, or the
// active exam when the caller has none.
func (s *AspirationService) Snapshot(ctx context.Context, principal models.Principal, examID int64) (*models.AspirationSnapshot, error) {
	candidate, err := candidateFor(ctx, s.repos.UserRepository, principal)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.UserRepository.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, storageError("Failed to load user", err)
	}

	all, err := s.listFor(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if examID == 0 {
		examID = newestExam(all)
	}

	var exam *models.Exam
	if examID != 0 {
		exam, err = s.repos.CatalogRepository.GetExamByID(ctx, examID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.ReasonExamNotFound, "Exam not found")
		}
	} else {
		exam, err = s.repos.CatalogRepository.GetActiveExam(ctx)
		if errors.Is(err, repositories.ErrNotFound) {
			exam, err = nil, nil
		}
	}
	if err != nil {
		return nil, storageError("Failed to load exam", err)
	}

	aspirations := []*models.AspirationDetail{}
	var stats models.AspirationStats
	inExam := make(map[int64]bool)
	for _, a := range all {
		if exam == nil || a.ExamID != exam.ID {
			continue
		}
		aspirations = append(aspirations, a)
		stats.Add(a.Status, a.PaymentStatus, 1)
		inExam[a.ID] = true
	}

	payments, err := s.repos.PaymentRepository.ListByCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, storageError("Failed to list payments", err)
	}
	var totalPaid int64
	for _, p := range payments {
		if p.Status == models.TransactionCompleted && inExam[p.AspirationID] {
			totalPaid += p.Amount
		}
	}

	return &models.AspirationSnapshot{
		Candidate:   candidate,
		User:        user,
		Exam:        exam,
		Aspirations: aspirations,
		Stats:       stats,
		TotalPaid:   totalPaid,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// newestExam returns the exam of the most recently registered aspiration
func newestExam(aspirations []*models.AspirationDetail) int64 {
	var newest *models.AspirationDetail
	for _, a := range aspirations {
		if newest == nil || a.RegisteredAt.After(newest.RegisteredAt) ||
			(a.RegisteredAt.Equal(newest.RegisteredAt) && a.ID > newest.ID) {
			newest = a
		}
	}
	if newest == nil {
		return 0
	}
	return newest.ExamID
}
