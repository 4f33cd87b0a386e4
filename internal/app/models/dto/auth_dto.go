package dto

import (
	"time"

	"github.com/yigit/admission/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"candidate"`
	Password string `json:"password" binding:"required" example:"candidate123"`
}

// RegisterCandidateRequest is a self-registration for a new candidate account
type RegisterCandidateRequest struct {
	Username       string     `json:"username" binding:"required,username" example:"nguyenvana"`
	Email          string     `json:"email" binding:"required,email" example:"nguyenvana@example.com"`
	Password       string     `json:"password" binding:"required,min=6" example:"secret123"`
	FullName       string     `json:"fullName" binding:"required,max=100" example:"Nguyen Van A"`
	CitizenID      string     `json:"citizenId" binding:"required,citizenid" example:"001203004567"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" example:"2007-05-12T00:00:00Z"`
	Gender         *string    `json:"gender,omitempty" binding:"omitempty,oneof=male female other" example:"male"`
	Phone          *string    `json:"phone,omitempty" binding:"omitempty,phone" example:"0912345678"`
	Address        *string    `json:"address,omitempty" binding:"omitempty,max=255"`
	HighSchool     *string    `json:"highSchool,omitempty" binding:"omitempty,max=255"`
	GraduationYear *int       `json:"graduationYear,omitempty" binding:"omitempty,min=1950,max=2100" example:"2025"`
}

// TokenResponse represents an issued session token
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64     `json:"expiresIn" example:"86400"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// ProfileResponse is the caller's account and, for candidates, their profile
type ProfileResponse struct {
	User      *models.User      `json:"user"`
	Candidate *models.Candidate `json:"candidate,omitempty"`
}
