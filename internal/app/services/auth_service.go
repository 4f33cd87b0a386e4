package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/repositories"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/auth"
	"github.com/yigit/admission/internal/pkg/metrics"
	"github.com/yigit/admission/internal/pkg/session"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	sessions   *session.Manager
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	bcryptCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, sessions *session.Manager, m *metrics.Metrics, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		metrics:    m,
		logger:     logger,
		bcryptCost: auth.BcryptCost,
	}
}

// WithBcryptCost overrides the hashing cost; zero keeps the default
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	if cost > 0 {
		s.bcryptCost = cost
	}
	return s
}

// Login checks credentials and issues a session
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("username", "Username and password are required")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		s.metrics.Login(apperrors.ReasonInvalidCredentials)
		return nil, apperrors.NewAuthError(apperrors.ReasonInvalidCredentials, "Invalid username or password")
	}
	if err != nil {
		return nil, storageError("Failed to load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.metrics.Login(apperrors.ReasonInvalidCredentials)
		return nil, apperrors.NewAuthError(apperrors.ReasonInvalidCredentials, "Invalid username or password")
	}
	if !user.IsActive {
		s.metrics.Login(apperrors.ReasonAccountDisabled)
		return nil, apperrors.NewAuthError(apperrors.ReasonAccountDisabled, "Account is disabled")
	}

	sess, err := s.sessions.Issue(ctx, user.Principal())
	if err != nil {
		return nil, err
	}
	s.metrics.Login("ok")

	s.logger.Info().
		Int64("userID", user.ID).
		Str("role", string(user.Role)).
		Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: sess.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(s.sessions.TTL().Seconds()),
			ExpiresAt:   sess.ExpiresAt,
		},
		User: user,
	}, nil
}

// Logout revokes the session behind token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// RegisterCandidate creates a candidate account and profile in one unit
func (s *AuthService) RegisterCandidate(ctx context.Context, req *dto.RegisterCandidateRequest) (*dto.ProfileResponse, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, apperrors.NewValidationError("fullName", "Full name cannot be empty")
	}

	hash, err := auth.HashPasswordWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to hash password", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         models.RoleCandidate,
		IsActive:     true,
	}
	candidate := &models.Candidate{
		CitizenID:      req.CitizenID,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		Phone:          req.Phone,
		HighSchool:     req.HighSchool,
		GraduationYear: req.GraduationYear,
	}

	if err := s.userRepo.CreateCandidateAccount(ctx, user, candidate); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError(apperrors.ReasonDuplicate, "Username, email or citizen id is already registered")
		}
		return nil, storageError("Failed to register candidate", err)
	}

	s.logger.Info().Int64("userID", user.ID).Int64("candidateID", candidate.ID).Msg("Candidate registered")
	return &dto.ProfileResponse{User: user, Candidate: candidate}, nil
}

// Me returns the caller's account and candidate profile
func (s *AuthService) Me(ctx context.Context, principal models.Principal) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, principal.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(apperrors.ReasonUserNotFound, "User not found")
	}
	if err != nil {
		return nil, storageError("Failed to load user", err)
	}

	resp := &dto.ProfileResponse{User: user}
	if user.Role == models.RoleCandidate {
		candidate, err := s.userRepo.GetCandidateByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, storageError("Failed to load candidate profile", err)
		}
		resp.Candidate = candidate
	}
	return resp, nil
}
