package dto

import "time"

// UpdateProfileRequest replaces a candidate's contact and personal details.
// Omitted optional fields are cleared.
type UpdateProfileRequest struct {
	Email          string     `json:"email" binding:"required,email" example:"nguyenvana@example.com"`
	FullName       string     `json:"fullName" binding:"required,max=100" example:"Nguyen Van A"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" example:"2007-05-12T00:00:00Z"`
	Gender         *string    `json:"gender,omitempty" binding:"omitempty,oneof=male female other" example:"female"`
	Address        *string    `json:"address,omitempty" binding:"omitempty,max=255"`
	Phone          *string    `json:"phone,omitempty" binding:"omitempty,phone" example:"0912345678"`
	HighSchool     *string    `json:"highSchool,omitempty" binding:"omitempty,max=255"`
	GraduationYear *int       `json:"graduationYear,omitempty" binding:"omitempty,min=1950,max=2100" example:"2025"`
}
