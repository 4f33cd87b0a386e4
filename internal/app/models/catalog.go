package models

import "time"

// University is a reference catalog entry
type University struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code" example:"HUST"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Website   *string   `json:"website,omitempty" db:"website"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Major belongs to exactly one university; (university, code) is unique
type Major struct {
	ID           int64     `json:"id" db:"id"`
	UniversityID int64     `json:"universityId" db:"university_id"`
	Code         string    `json:"code" db:"code" example:"IT1"`
	Name         string    `json:"name" db:"name"`
	SubjectGroup *string   `json:"subjectGroup,omitempty" db:"subject_group" example:"A00"`
	Quota        int       `json:"quota" db:"quota"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Exam is an admission cycle
type Exam struct {
	ID                int64      `json:"id" db:"id"`
	Code              string     `json:"code" db:"code" example:"EXAM_2025"`
	Name              string     `json:"name" db:"name"`
	Year              int        `json:"year" db:"year"`
	RegistrationStart *time.Time `json:"registrationStart,omitempty" db:"registration_start"`
	RegistrationEnd   *time.Time `json:"registrationEnd,omitempty" db:"registration_end"`
	Status            ExamStatus `json:"status" db:"status" example:"active"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
}
