package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/db"
	"github.com/yigit/admission/internal/pkg/dberrors"
	"github.com/yigit/admission/internal/pkg/logger"
)

var userColumns = []string{
	"id", "username", "email", "password_hash", "full_name", "role", "is_active", "created_at", "updated_at",
}

var candidateColumns = []string{
	"id", "user_id", "citizen_id", "date_of_birth", "gender", "address", "phone", "high_school", "graduation_year", "created_at",
}

// UserRepository handles user and candidate database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func scanCandidate(row pgx.Row) (*models.Candidate, error) {
	c := &models.Candidate{}
	err := row.Scan(&c.ID, &c.UserID, &c.CitizenID, &c.DateOfBirth, &c.Gender, &c.Address, &c.Phone, &c.HighSchool, &c.GraduationYear, &c.CreatedAt)
	return c, err
}

func isUserDuplicate(err error) bool {
	return dberrors.IsDuplicateConstraintError(err, constraintUsername) ||
		dberrors.IsDuplicateConstraintError(err, constraintEmail) ||
		dberrors.IsDuplicateConstraintError(err, constraintCitizenID)
}

func (r *UserRepository) insertUser(ctx context.Context, q db.Querier, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("username", "email", "password_hash", "full_name", "role", "is_active").
		Values(user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isUserDuplicate(err) {
			return 0, ErrDuplicate
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) insertCandidate(ctx context.Context, q db.Querier, c *models.Candidate) (int64, error) {
	sql, args, err := r.sb.Insert("candidates").
		Columns("user_id", "citizen_id", "date_of_birth", "gender", "address", "phone", "high_school", "graduation_year").
		Values(c.UserID, c.CitizenID, c.DateOfBirth, c.Gender, c.Address, c.Phone, c.HighSchool, c.GraduationYear).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create candidate SQL")
		return 0, fmt.Errorf("failed to build create candidate query: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isUserDuplicate(err) {
			return 0, ErrDuplicate
		}
		logger.Error().Err(err).Int64("userID", c.UserID).Msg("Error executing create candidate query")
		return 0, fmt.Errorf("error creating candidate: %w", err)
	}
	return id, nil
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	return r.insertUser(ctx, r.db, user)
}

// CreateCandidate creates a candidate profile for an existing user
func (r *UserRepository) CreateCandidate(ctx context.Context, candidate *models.Candidate) (int64, error) {
	return r.insertCandidate(ctx, r.db, candidate)
}

// CreateCandidateAccount creates the user and candidate rows in one transaction
func (r *UserRepository) CreateCandidateAccount(ctx context.Context, user *models.User, candidate *models.Candidate) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := r.insertUser(ctx, tx, user)
		if err != nil {
			return err
		}
		candidate.UserID = userID

		candidateID, err := r.insertCandidate(ctx, tx, candidate)
		if err != nil {
			return err
		}

		user.ID = userID
		candidate.ID = candidateID
		return nil
	})
}

func (r *UserRepository) getUser(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Interface("filter", where).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, squirrel.Eq{"id": id})
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, squirrel.Eq{"username": username})
}

// GetCandidateByUserID retrieves the candidate profile owned by a user
func (r *UserRepository) GetCandidateByUserID(ctx context.Context, userID int64) (*models.Candidate, error) {
	sql, args, err := r.sb.Select(candidateColumns...).
		From("candidates").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get candidate SQL")
		return nil, fmt.Errorf("failed to build get candidate query: %w", err)
	}

	candidate, err := scanCandidate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning candidate row")
		return nil, fmt.Errorf("error getting candidate: %w", err)
	}
	return candidate, nil
}

// UpdateCandidateProfile updates the users and candidates rows of one candidate in a transaction
func (r *UserRepository) UpdateCandidateProfile(ctx context.Context, user *models.User, candidate *models.Candidate) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("users").
			Set("email", user.Email).
			Set("full_name", user.FullName).
			Set("updated_at", user.UpdatedAt).
			Where(squirrel.Eq{"id": user.ID}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building update user SQL")
			return fmt.Errorf("failed to build update user query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			if isUserDuplicate(err) {
				return ErrDuplicate
			}
			logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update user query")
			return fmt.Errorf("error updating user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		sql, args, err = r.sb.Update("candidates").
			Set("date_of_birth", candidate.DateOfBirth).
			Set("gender", candidate.Gender).
			Set("address", candidate.Address).
			Set("phone", candidate.Phone).
			Set("high_school", candidate.HighSchool).
			Set("graduation_year", candidate.GraduationYear).
			Where(squirrel.Eq{"user_id": user.ID}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building update candidate SQL")
			return fmt.Errorf("failed to build update candidate query: %w", err)
		}
		tag, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update candidate query")
			return fmt.Errorf("error updating candidate: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountActiveCandidates counts candidate accounts that can still sign in
func (r *UserRepository) CountActiveCandidates(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"role": models.RoleCandidate, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count candidates query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting active candidates")
		return 0, fmt.Errorf("error counting candidates: %w", err)
	}
	return count, nil
}
