package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/pkg/dberrors"
	"github.com/yigit/admission/internal/pkg/logger"
)

var (
	universityColumns = []string{"id", "code", "name", "address", "website", "is_active", "created_at"}
	majorColumns      = []string{"id", "university_id", "code", "name", "subject_group", "quota", "created_at"}
	examColumns       = []string{"id", "code", "name", "year", "registration_start", "registration_end", "status", "created_at"}
)

// CatalogRepository handles university, major and exam reads and seeding writes
type CatalogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanUniversity(row pgx.Row) (*models.University, error) {
	u := &models.University{}
	err := row.Scan(&u.ID, &u.Code, &u.Name, &u.Address, &u.Website, &u.IsActive, &u.CreatedAt)
	return u, err
}

func scanMajor(row pgx.Row) (*models.Major, error) {
	m := &models.Major{}
	err := row.Scan(&m.ID, &m.UniversityID, &m.Code, &m.Name, &m.SubjectGroup, &m.Quota, &m.CreatedAt)
	return m, err
}

func scanExam(row pgx.Row) (*models.Exam, error) {
	e := &models.Exam{}
	err := row.Scan(&e.ID, &e.Code, &e.Name, &e.Year, &e.RegistrationStart, &e.RegistrationEnd, &e.Status, &e.CreatedAt)
	return e, err
}

// insertReturningID runs an INSERT ... RETURNING id, mapping the named unique constraint to ErrDuplicate
func (r *CatalogRepository) insertReturningID(ctx context.Context, builder squirrel.InsertBuilder, constraint, what string) (int64, error) {
	sql, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error building insert SQL")
		return 0, fmt.Errorf("failed to build create %s query: %w", what, err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraint) {
			return 0, ErrDuplicate
		}
		logger.Error().Err(err).Str("entity", what).Msg("Error executing insert query")
		return 0, fmt.Errorf("error creating %s: %w", what, err)
	}
	return id, nil
}

// CreateUniversity creates a new university
func (r *CatalogRepository) CreateUniversity(ctx context.Context, university *models.University) (int64, error) {
	builder := r.sb.Insert("universities").
		Columns("code", "name", "address", "website", "is_active").
		Values(university.Code, university.Name, university.Address, university.Website, university.IsActive)
	return r.insertReturningID(ctx, builder, constraintUniversityCode, "university")
}

// CreateMajor creates a new major
func (r *CatalogRepository) CreateMajor(ctx context.Context, major *models.Major) (int64, error) {
	builder := r.sb.Insert("majors").
		Columns("university_id", "code", "name", "subject_group", "quota").
		Values(major.UniversityID, major.Code, major.Name, major.SubjectGroup, major.Quota)
	return r.insertReturningID(ctx, builder, constraintMajorCode, "major")
}

// CreateExam creates a new exam
func (r *CatalogRepository) CreateExam(ctx context.Context, exam *models.Exam) (int64, error) {
	builder := r.sb.Insert("exams").
		Columns("code", "name", "year", "registration_start", "registration_end", "status").
		Values(exam.Code, exam.Name, exam.Year, exam.RegistrationStart, exam.RegistrationEnd, exam.Status)
	return r.insertReturningID(ctx, builder, constraintExamCode, "exam")
}

func (r *CatalogRepository) getUniversity(ctx context.Context, where squirrel.Sqlizer) (*models.University, error) {
	sql, args, err := r.sb.Select(universityColumns...).From("universities").Where(where).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get university SQL")
		return nil, fmt.Errorf("failed to build get university query: %w", err)
	}

	university, err := scanUniversity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning university row")
		return nil, fmt.Errorf("error getting university: %w", err)
	}
	return university, nil
}

// GetUniversityByID retrieves a university by ID
func (r *CatalogRepository) GetUniversityByID(ctx context.Context, id int64) (*models.University, error) {
	return r.getUniversity(ctx, squirrel.Eq{"id": id})
}

// GetUniversityByCode retrieves a university by its unique code
func (r *CatalogRepository) GetUniversityByCode(ctx context.Context, code string) (*models.University, error) {
	return r.getUniversity(ctx, squirrel.Eq{"code": code})
}

// ListUniversities retrieves universities ordered by code
func (r *CatalogRepository) ListUniversities(ctx context.Context, activeOnly bool) ([]*models.University, error) {
	query := r.sb.Select(universityColumns...).From("universities").OrderBy("code ASC")
	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list universities SQL")
		return nil, fmt.Errorf("failed to build list universities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list universities query")
		return nil, fmt.Errorf("error querying universities: %w", err)
	}
	defer rows.Close()

	universities := []*models.University{}
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning university row: %w", err)
		}
		universities = append(universities, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating university rows: %w", err)
	}
	return universities, nil
}

// CountUniversities counts universities, optionally only the active ones
func (r *CatalogRepository) CountUniversities(ctx context.Context, activeOnly bool) (int64, error) {
	query := r.sb.Select("COUNT(*)").From("universities")
	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count universities query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting universities")
		return 0, fmt.Errorf("error counting universities: %w", err)
	}
	return count, nil
}

// GetMajorByID retrieves a major by ID
func (r *CatalogRepository) GetMajorByID(ctx context.Context, id int64) (*models.Major, error) {
	sql, args, err := r.sb.Select(majorColumns...).From("majors").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get major SQL")
		return nil, fmt.Errorf("failed to build get major query: %w", err)
	}

	major, err := scanMajor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("majorID", id).Msg("Error scanning major row")
		return nil, fmt.Errorf("error getting major: %w", err)
	}
	return major, nil
}

// ListMajorsByUniversity retrieves the majors offered by one university
func (r *CatalogRepository) ListMajorsByUniversity(ctx context.Context, universityID int64) ([]*models.Major, error) {
	sql, args, err := r.sb.Select(majorColumns...).
		From("majors").
		Where(squirrel.Eq{"university_id": universityID}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list majors SQL")
		return nil, fmt.Errorf("failed to build list majors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("universityID", universityID).Msg("Error executing list majors query")
		return nil, fmt.Errorf("error querying majors: %w", err)
	}
	defer rows.Close()

	majors := []*models.Major{}
	for rows.Next() {
		m, err := scanMajor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning major row: %w", err)
		}
		majors = append(majors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating major rows: %w", err)
	}
	return majors, nil
}

func (r *CatalogRepository) getExam(ctx context.Context, query squirrel.SelectBuilder) (*models.Exam, error) {
	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get exam SQL")
		return nil, fmt.Errorf("failed to build get exam query: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning exam row")
		return nil, fmt.Errorf("error getting exam: %w", err)
	}
	return exam, nil
}

// GetExamByID retrieves an exam by ID
func (r *CatalogRepository) GetExamByID(ctx context.Context, id int64) (*models.Exam, error) {
	return r.getExam(ctx, r.sb.Select(examColumns...).From("exams").Where(squirrel.Eq{"id": id}))
}

// GetExamByCode retrieves an exam by its unique code
func (r *CatalogRepository) GetExamByCode(ctx context.Context, code string) (*models.Exam, error) {
	return r.getExam(ctx, r.sb.Select(examColumns...).From("exams").Where(squirrel.Eq{"code": code}))
}

// GetActiveExam retrieves the most recent exam with status active
func (r *CatalogRepository) GetActiveExam(ctx context.Context) (*models.Exam, error) {
	return r.getExam(ctx, r.sb.Select(examColumns...).
		From("exams").
		Where(squirrel.Eq{"status": models.ExamActive}).
		OrderBy("year DESC", "id DESC"))
}
