package repositories

import (
	"context"
	"time"

	"github.com/yigit/admission/internal/app/models"
)

// IUserRepository stores accounts and candidate profiles
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	CreateCandidate(ctx context.Context, candidate *models.Candidate) (int64, error)
	// CreateCandidateAccount inserts the user and the candidate profile atomically and fills in both ids.
	CreateCandidateAccount(ctx context.Context, user *models.User, candidate *models.Candidate) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetCandidateByUserID(ctx context.Context, userID int64) (*models.Candidate, error)
	// UpdateCandidateProfile rewrites the account's email and name and the candidate's
	// personal fields together; user.ID selects both rows.
	UpdateCandidateProfile(ctx context.Context, user *models.User, candidate *models.Candidate) error
	CountActiveCandidates(ctx context.Context) (int64, error)
}

// ICatalogRepository stores universities, majors and exams
type ICatalogRepository interface {
	CreateUniversity(ctx context.Context, university *models.University) (int64, error)
	GetUniversityByID(ctx context.Context, id int64) (*models.University, error)
	GetUniversityByCode(ctx context.Context, code string) (*models.University, error)
	ListUniversities(ctx context.Context, activeOnly bool) ([]*models.University, error)
	CountUniversities(ctx context.Context, activeOnly bool) (int64, error)

	CreateMajor(ctx context.Context, major *models.Major) (int64, error)
	GetMajorByID(ctx context.Context, id int64) (*models.Major, error)
	ListMajorsByUniversity(ctx context.Context, universityID int64) ([]*models.Major, error)

	CreateExam(ctx context.Context, exam *models.Exam) (int64, error)
	GetExamByID(ctx context.Context, id int64) (*models.Exam, error)
	GetExamByCode(ctx context.Context, code string) (*models.Exam, error)
	GetActiveExam(ctx context.Context) (*models.Exam, error)
}

// IAspirationRepository owns aspiration rows
type IAspirationRepository interface {
	// Create returns ErrSlotTaken when (candidate, exam, priority) is already used.
	Create(ctx context.Context, aspiration *models.Aspiration) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Aspiration, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]*models.AspirationDetail, error)
	CountByCandidateExam(ctx context.Context, candidateID, examID int64) (int, error)
	// Delete removes a pending, unpaid aspiration owned by candidateID.
	Delete(ctx context.Context, id, candidateID int64) error
	// Reorder applies every change or none of them.
	Reorder(ctx context.Context, candidateID int64, changes []models.PriorityChange, maxPriority int) error
	// Decide moves a pending aspiration to a terminal status. Finalized rows yield ErrAlreadyFinalized.
	Decide(ctx context.Context, decision models.Decision) (*models.Aspiration, error)
	ListPending(ctx context.Context, offset uint64, limit int) ([]*models.PendingAspiration, int64, error)
	// Stats counts aspirations; a nil candidateID counts all of them.
	Stats(ctx context.Context, candidateID *int64) (models.AspirationStats, error)
}

// IPaymentRepository owns payment rows
type IPaymentRepository interface {
	// Create returns ErrAlreadyPaid when the aspiration already has a completed payment
	// and ErrDuplicate when the transaction id is taken.
	Create(ctx context.Context, payment *models.Payment) (int64, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	// Complete marks the pending payment and its aspiration paid in one unit. It reports
	// applied=false when the payment was already completed.
	Complete(ctx context.Context, transactionID string, paidAt time.Time) (payment *models.Payment, applied bool, err error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]*models.PaymentDetail, error)
	CompletedTotals(ctx context.Context) (count int64, amount int64, err error)
}
