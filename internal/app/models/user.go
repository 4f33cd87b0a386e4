package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"candidate"`
	Email        string    `json:"email" db:"email" example:"candidate@example.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name" example:"Nguyen Van A"`
	Role         RoleType  `json:"role" db:"role" example:"candidate"`
	IsActive     bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Principal returns the identity a session carries for this user
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Candidate defines the candidate profile based on the 'candidates' table
type Candidate struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"userId" db:"user_id"`
	CitizenID      string     `json:"citizenId" db:"citizen_id" example:"001204000001"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender         *string    `json:"gender,omitempty" db:"gender"`
	Address        *string    `json:"address,omitempty" db:"address"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	HighSchool     *string    `json:"highSchool,omitempty" db:"high_school"`
	GraduationYear *int       `json:"graduationYear,omitempty" db:"graduation_year"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}
