package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Shared repository errors. Services translate them into typed application errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrSlotTaken         = errors.New("priority slot already taken")
	ErrPriorityCollision = errors.New("priorities collide after reorder")
	ErrPriorityRange     = errors.New("priority out of range")
	ErrAlreadyFinalized  = errors.New("aspiration already finalized")
	ErrAlreadyPaid       = errors.New("aspiration already paid")
	ErrHasPayments       = errors.New("aspiration has payments")
)

// Constraint names from migrations/001_init.sql
const (
	constraintUsername       = "users_username_key"
	constraintEmail          = "users_email_key"
	constraintCitizenID      = "candidates_citizen_id_key"
	constraintAspirationSlot = "aspirations_candidate_exam_priority_key"
	constraintTransactionID  = "payments_transaction_id_key"
	constraintCompletedOnce  = "payments_one_completed_idx"
	constraintUniversityCode = "universities_code_key"
	constraintMajorCode      = "majors_university_code_key"
	constraintExamCode       = "exams_code_key"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       IUserRepository
	CatalogRepository    ICatalogRepository
	AspirationRepository IAspirationRepository
	PaymentRepository    IPaymentRepository
	Ping                 func(ctx context.Context) error
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CatalogRepository:    NewCatalogRepository(db),
		AspirationRepository: NewAspirationRepository(db),
		PaymentRepository:    NewPaymentRepository(db),
		Ping:                 db.Ping,
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
