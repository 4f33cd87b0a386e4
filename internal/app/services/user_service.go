package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
)

// UserService maintains account and candidate profile details
type UserService struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger, now: time.Now}
}

// WithClock replaces the time source
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// UpdateCandidateProfile rewrites the caller's email, name and personal details.
// The users and candidates rows change together or not at all.
func (s *UserService) UpdateCandidateProfile(ctx context.Context, principal models.Principal, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := requireRole(principal, models.RoleCandidate); err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("fullName", "Full name cannot be empty")
	}

	user, err := s.userRepo.GetUserByID(ctx, principal.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ReasonUserNotFound, "User not found")
	}
	if err != nil {
		return nil, storageError("Failed to load user", err)
	}
	candidate, err := candidateFor(ctx, s.userRepo, principal)
	if err != nil {
		return nil, err
	}

	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.FullName = fullName
	user.UpdatedAt = s.now().UTC()

	candidate.DateOfBirth = req.DateOfBirth
	candidate.Gender = req.Gender
	candidate.Address = req.Address
	candidate.Phone = req.Phone
	candidate.HighSchool = req.HighSchool
	candidate.GraduationYear = req.GraduationYear

	if err := s.userRepo.UpdateCandidateProfile(ctx, user, candidate); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, apperrors.NewConflictError(apperrors.ReasonDuplicate, "Email is already in use").WithField("email")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewNotFoundError(apperrors.ReasonCandidateNotFound, "Candidate profile not found")
		}
		return nil, storageError("Failed to update profile", err)
	}

	s.logger.Info().Int64("userID", user.ID).Int64("candidateID", candidate.ID).Msg("Candidate profile updated")
	return &dto.ProfileResponse{User: user, Candidate: candidate}, nil
}
