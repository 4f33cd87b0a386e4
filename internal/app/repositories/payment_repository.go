package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/db"
	"github.com/yigit/admission/internal/pkg/dberrors"
	"github.com/yigit/admission/internal/pkg/logger"
)

var paymentColumns = []string{
	"id", "candidate_id", "exam_id", "aspiration_id", "amount", "currency", "method",
	"transaction_id", "status", "created_at", "payment_date",
}

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func paymentFields(p *models.Payment) []any {
	return []any{
		&p.ID, &p.CandidateID, &p.ExamID, &p.AspirationID, &p.Amount, &p.Currency, &p.Method,
		&p.TransactionID, &p.Status, &p.CreatedAt, &p.PaymentDate,
	}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(paymentFields(p)...)
	return p, err
}

// Create inserts a pending payment after locking the aspiration it pays for
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("payment_status").
			From("aspirations").
			Where(squirrel.Eq{"id": p.AspirationID, "candidate_id": p.CandidateID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock aspiration query: %w", err)
		}

		var paymentStatus models.PaymentStatus
		if err := tx.QueryRow(ctx, sql, args...).Scan(&paymentStatus); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("error locking aspiration: %w", err)
		}
		if paymentStatus == models.PaymentStatusPaid {
			return ErrAlreadyPaid
		}

		completed, err := r.hasCompleted(ctx, tx, p.AspirationID)
		if err != nil {
			return err
		}
		if completed {
			return ErrAlreadyPaid
		}

		sql, args, err = r.sb.Insert("payments").
			Columns("candidate_id", "exam_id", "aspiration_id", "amount", "currency", "method", "transaction_id", "status", "created_at").
			Values(p.CandidateID, p.ExamID, p.AspirationID, p.Amount, p.Currency, p.Method, p.TransactionID, p.Status, p.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create payment query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintTransactionID) {
				return ErrDuplicate
			}
			logger.Error().Err(err).Str("transactionID", p.TransactionID).Msg("Error executing create payment query")
			return fmt.Errorf("error creating payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PaymentRepository) hasCompleted(ctx context.Context, q db.Querier, aspirationID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("payments").
		Where(squirrel.Eq{"aspiration_id": aspirationID, "status": models.TransactionCompleted}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build completed payment query: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking completed payments: %w", err)
	}
	return exists, nil
}

func (r *PaymentRepository) getByTransactionID(ctx context.Context, q db.Querier, transactionID string) (*models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"transaction_id": transactionID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get payment SQL")
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	p, err := scanPayment(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("transactionID", transactionID).Msg("Error scanning payment row")
		return nil, fmt.Errorf("error getting payment: %w", err)
	}
	return p, nil
}

// GetByTransactionID retrieves a payment by its transaction identifier
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	return r.getByTransactionID(ctx, r.db, transactionID)
}

// Complete flips the payment to completed and its aspiration to paid in one
// transaction. Both updates are conditional on the pending state, so a repeated
// call changes nothing and reports applied=false.
func (r *PaymentRepository) Complete(ctx context.Context, transactionID string, paidAt time.Time) (*models.Payment, bool, error) {
	var (
		payment *models.Payment
		applied bool
	)

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("payments").
			Set("status", models.TransactionCompleted).
			Set("payment_date", paidAt).
			Where(squirrel.Eq{"transaction_id": transactionID, "status": models.TransactionPending}).
			Suffix("RETURNING " + strings.Join(paymentColumns, ", ")).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build complete payment query: %w", err)
		}

		p, err := scanPayment(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintCompletedOnce) {
				return ErrAlreadyPaid
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("error completing payment: %w", err)
			}
			existing, err := r.getByTransactionID(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			payment = existing
			return nil
		}

		sql, args, err = r.sb.Update("aspirations").
			Set("payment_status", models.PaymentStatusPaid).
			Where(squirrel.Eq{"id": p.AspirationID, "payment_status": models.PaymentStatusPending}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build mark aspiration paid query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error marking aspiration paid: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyPaid
		}

		payment = p
		applied = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyPaid) && !errors.Is(err, ErrNotFound) {
			logger.Error().Err(err).Str("transactionID", transactionID).Msg("Error verifying payment")
		}
		return nil, false, err
	}
	return payment, applied, nil
}

// ListByCandidate retrieves a candidate's payments, newest first
func (r *PaymentRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.PaymentDetail, error) {
	columns := append(qualified("p", paymentColumns), "a.priority", "u.name", "m.name")
	sql, args, err := r.sb.Select(columns...).
		From("payments p").
		Join("aspirations a ON a.id = p.aspiration_id").
		Join("universities u ON u.id = a.university_id").
		Join("majors m ON m.id = a.major_id").
		Where(squirrel.Eq{"p.candidate_id": candidateID}).
		OrderBy("p.created_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building payment history SQL")
		return nil, fmt.Errorf("failed to build payment history query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("candidateID", candidateID).Msg("Error executing payment history query")
		return nil, fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	result := []*models.PaymentDetail{}
	for rows.Next() {
		d := &models.PaymentDetail{}
		fields := append(paymentFields(&d.Payment), &d.Priority, &d.UniversityName, &d.MajorName)
		if err := rows.Scan(fields...); err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return result, nil
}

// CompletedTotals returns the number and sum of completed payments
func (r *PaymentRepository) CompletedTotals(ctx context.Context) (int64, int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)", "COALESCE(SUM(amount), 0)::BIGINT").
		From("payments").
		Where(squirrel.Eq{"status": models.TransactionCompleted}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build payment totals query: %w", err)
	}

	var count, amount int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count, &amount); err != nil {
		logger.Error().Err(err).Msg("Error executing payment totals query")
		return 0, 0, fmt.Errorf("error querying payment totals: %w", err)
	}
	return count, amount, nil
}
