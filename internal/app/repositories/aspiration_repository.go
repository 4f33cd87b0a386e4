package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/db"
	"github.com/yigit/admission/internal/pkg/dberrors"
	"github.com/yigit/admission/internal/pkg/logger"
)

var aspirationColumns = []string{
	"id", "candidate_id", "exam_id", "university_id", "major_id", "priority",
	"status", "payment_status", "registered_at", "reviewed_by", "reviewed_at", "notes",
}

// detailColumns are the joined catalog labels that follow the aspiration columns
var detailColumns = []string{"e.code", "u.code", "u.name", "m.code", "m.name", "m.subject_group"}

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// AspirationRepository handles aspiration database operations
type AspirationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAspirationRepository creates a new AspirationRepository
func NewAspirationRepository(db *pgxpool.Pool) *AspirationRepository {
	return &AspirationRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func aspirationFields(a *models.Aspiration) []any {
	return []any{
		&a.ID, &a.CandidateID, &a.ExamID, &a.UniversityID, &a.MajorID, &a.Priority,
		&a.Status, &a.PaymentStatus, &a.RegisteredAt, &a.ReviewedBy, &a.ReviewedAt, &a.Notes,
	}
}

func detailFields(d *models.AspirationDetail) []any {
	return append(aspirationFields(&d.Aspiration),
		&d.ExamCode, &d.UniversityCode, &d.UniversityName, &d.MajorCode, &d.MajorName, &d.SubjectGroup)
}

func scanAspiration(row pgx.Row) (*models.Aspiration, error) {
	a := &models.Aspiration{}
	err := row.Scan(aspirationFields(a)...)
	return a, err
}

func (r *AspirationRepository) detailQuery() squirrel.SelectBuilder {
	columns := append(qualified("a", aspirationColumns), detailColumns...)
	return r.sb.Select(columns...).
		From("aspirations a").
		Join("exams e ON e.id = a.exam_id").
		Join("universities u ON u.id = a.university_id").
		Join("majors m ON m.id = a.major_id")
}

// Create inserts a new aspiration. The unique (candidate, exam, priority) constraint
// is the final arbiter of slot ownership.
func (r *AspirationRepository) Create(ctx context.Context, a *models.Aspiration) (int64, error) {
	sql, args, err := r.sb.Insert("aspirations").
		Columns("candidate_id", "exam_id", "university_id", "major_id", "priority", "status", "payment_status", "registered_at").
		Values(a.CandidateID, a.ExamID, a.UniversityID, a.MajorID, a.Priority, a.Status, a.PaymentStatus, a.RegisteredAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create aspiration SQL")
		return 0, fmt.Errorf("failed to build create aspiration query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintAspirationSlot):
			return 0, ErrSlotTaken
		case dberrors.IsCheckViolation(err):
			return 0, ErrPriorityRange
		case dberrors.IsForeignKeyViolation(err):
			return 0, ErrNotFound
		}
		logger.Error().Err(err).
			Int64("candidateID", a.CandidateID).
			Int64("examID", a.ExamID).
			Int("priority", a.Priority).
			Msg("Error executing create aspiration query")
		return 0, fmt.Errorf("error creating aspiration: %w", err)
	}
	return id, nil
}

// GetByID retrieves an aspiration by ID
func (r *AspirationRepository) GetByID(ctx context.Context, id int64) (*models.Aspiration, error) {
	sql, args, err := r.sb.Select(aspirationColumns...).From("aspirations").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get aspiration SQL")
		return nil, fmt.Errorf("failed to build get aspiration query: %w", err)
	}

	a, err := scanAspiration(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("aspirationID", id).Msg("Error scanning aspiration row")
		return nil, fmt.Errorf("error getting aspiration: %w", err)
	}
	return a, nil
}

// ListByCandidate retrieves a candidate's aspirations ordered by priority
func (r *AspirationRepository) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.AspirationDetail, error) {
	sql, args, err := r.detailQuery().
		Where(squirrel.Eq{"a.candidate_id": candidateID}).
		OrderBy("a.priority ASC", "a.exam_id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list aspirations SQL")
		return nil, fmt.Errorf("failed to build list aspirations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("candidateID", candidateID).Msg("Error executing list aspirations query")
		return nil, fmt.Errorf("error querying aspirations: %w", err)
	}
	defer rows.Close()

	result := []*models.AspirationDetail{}
	for rows.Next() {
		d := &models.AspirationDetail{}
		if err := rows.Scan(detailFields(d)...); err != nil {
			return nil, fmt.Errorf("error scanning aspiration row: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aspiration rows: %w", err)
	}
	return result, nil
}

// CountByCandidateExam counts a candidate's aspirations in one exam
func (r *AspirationRepository) CountByCandidateExam(ctx context.Context, candidateID, examID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("aspirations").
		Where(squirrel.Eq{"candidate_id": candidateID, "exam_id": examID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count aspirations query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("candidateID", candidateID).Int64("examID", examID).Msg("Error counting aspirations")
		return 0, fmt.Errorf("error counting aspirations: %w", err)
	}
	return count, nil
}

// Delete removes a pending aspiration with no payments
func (r *AspirationRepository) Delete(ctx context.Context, id, candidateID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("status").
			From("aspirations").
			Where(squirrel.Eq{"id": id, "candidate_id": candidateID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock aspiration query: %w", err)
		}

		var status models.AspirationStatus
		if err := tx.QueryRow(ctx, sql, args...).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("error locking aspiration: %w", err)
		}
		if status != models.AspirationPending {
			return ErrAlreadyFinalized
		}

		hasPayments, err := r.hasPayments(ctx, tx, id)
		if err != nil {
			return err
		}
		if hasPayments {
			return ErrHasPayments
		}

		sql, args, err = r.sb.Delete("aspirations").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete aspiration query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("aspirationID", id).Msg("Error executing delete aspiration query")
			return fmt.Errorf("error deleting aspiration: %w", err)
		}
		return nil
	})
}

func (r *AspirationRepository) hasPayments(ctx context.Context, q db.Querier, aspirationID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("payments").
		Where(squirrel.Eq{"aspiration_id": aspirationID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build payment existence query: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking payments: %w", err)
	}
	return exists, nil
}

// Reorder locks every aspiration of the candidate, validates the whole batch and
// applies it with the slot constraint deferred to commit.
func (r *AspirationRepository) Reorder(ctx context.Context, candidateID int64, changes []models.PriorityChange, maxPriority int) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SET CONSTRAINTS "+constraintAspirationSlot+" DEFERRED"); err != nil {
			return fmt.Errorf("error deferring slot constraint: %w", err)
		}

		sql, args, err := r.sb.Select(aspirationColumns...).
			From("aspirations").
			Where(squirrel.Eq{"candidate_id": candidateID}).
			OrderBy("id").
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock aspirations query: %w", err)
		}

		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error locking aspirations: %w", err)
		}
		owned, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Aspiration, error) {
			return scanAspiration(row)
		})
		if err != nil {
			return fmt.Errorf("error scanning aspirations: %w", err)
		}

		plan, err := PlanReorder(owned, changes, maxPriority)
		if err != nil {
			return err
		}

		for _, a := range owned {
			priority, ok := plan[a.ID]
			if !ok || priority == a.Priority {
				continue
			}
			sql, args, err := r.sb.Update("aspirations").
				Set("priority", priority).
				Where(squirrel.Eq{"id": a.ID, "candidate_id": candidateID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build reorder query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error updating priority of aspiration %d: %w", a.ID, err)
			}
		}
		return nil
	})
	if dberrors.IsDuplicateConstraintError(err, constraintAspirationSlot) {
		return ErrPriorityCollision
	}
	return err
}

// Decide applies a terminal review decision with a compare-and-set on status
func (r *AspirationRepository) Decide(ctx context.Context, d models.Decision) (*models.Aspiration, error) {
	sql, args, err := r.sb.Update("aspirations").
		SetMap(map[string]interface{}{
			"status":      d.Status,
			"reviewed_by": d.ReviewerID,
			"reviewed_at": d.DecidedAt,
			"notes":       d.Notes,
		}).
		Where(squirrel.Eq{"id": d.AspirationID, "status": models.AspirationPending}).
		Suffix("RETURNING " + strings.Join(aspirationColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building decide aspiration SQL")
		return nil, fmt.Errorf("failed to build decide aspiration query: %w", err)
	}

	a, err := scanAspiration(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("aspirationID", d.AspirationID).Msg("Error executing decide aspiration query")
		return nil, fmt.Errorf("error deciding aspiration: %w", err)
	}

	// Nothing matched: either the row is gone or it is no longer pending
	if _, err := r.GetByID(ctx, d.AspirationID); err != nil {
		return nil, err
	}
	return nil, ErrAlreadyFinalized
}

// ListPending retrieves the review queue, oldest first
func (r *AspirationRepository) ListPending(ctx context.Context, offset uint64, limit int) ([]*models.PendingAspiration, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("aspirations").
		Where(squirrel.Eq{"status": models.AspirationPending}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count pending query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting pending aspirations")
		return nil, 0, fmt.Errorf("error counting pending aspirations: %w", err)
	}

	sql, args, err := r.detailQuery().
		Columns("usr.full_name", "c.citizen_id").
		Join("candidates c ON c.id = a.candidate_id").
		Join("users usr ON usr.id = c.user_id").
		Where(squirrel.Eq{"a.status": models.AspirationPending}).
		OrderBy("a.registered_at ASC", "a.id ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list pending SQL")
		return nil, 0, fmt.Errorf("failed to build list pending query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list pending query")
		return nil, 0, fmt.Errorf("error querying pending aspirations: %w", err)
	}
	defer rows.Close()

	result := []*models.PendingAspiration{}
	for rows.Next() {
		p := &models.PendingAspiration{}
		fields := append(detailFields(&p.AspirationDetail), &p.CandidateName, &p.CitizenID)
		if err := rows.Scan(fields...); err != nil {
			return nil, 0, fmt.Errorf("error scanning pending aspiration row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating pending aspiration rows: %w", err)
	}
	return result, total, nil
}

// Stats counts aspirations by status and payment status
func (r *AspirationRepository) Stats(ctx context.Context, candidateID *int64) (models.AspirationStats, error) {
	var stats models.AspirationStats

	query := r.sb.Select("status", "payment_status", "COUNT(*)").
		From("aspirations").
		GroupBy("status", "payment_status")
	if candidateID != nil {
		query = query.Where(squirrel.Eq{"candidate_id": *candidateID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build aspiration stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing aspiration stats query")
		return stats, fmt.Errorf("error querying aspiration stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status        models.AspirationStatus
			paymentStatus models.PaymentStatus
			n             int64
		)
		if err := rows.Scan(&status, &paymentStatus, &n); err != nil {
			return stats, fmt.Errorf("error scanning aspiration stats row: %w", err)
		}
		stats.Add(status, paymentStatus, n)
	}
	return stats, rows.Err()
}
