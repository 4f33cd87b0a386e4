package models

import "time"

// Aspiration is a candidate's ranked preference for a university major within one exam
type Aspiration struct {
	ID            int64            `json:"id" db:"id"`
	CandidateID   int64            `json:"candidateId" db:"candidate_id"`
	ExamID        int64            `json:"examId" db:"exam_id"`
	UniversityID  int64            `json:"universityId" db:"university_id"`
	MajorID       int64            `json:"majorId" db:"major_id"`
	Priority      int              `json:"priority" db:"priority" example:"1"`
	Status        AspirationStatus `json:"status" db:"status" example:"pending"`
	PaymentStatus PaymentStatus    `json:"paymentStatus" db:"payment_status" example:"pending"`
	RegisteredAt  time.Time        `json:"registeredAt" db:"registered_at"`
	ReviewedBy    *int64           `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt    *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Notes         *string          `json:"notes,omitempty" db:"notes"`
}

// AspirationDetail joins an aspiration with its catalog labels
type AspirationDetail struct {
	Aspiration
	ExamCode       string  `json:"examCode"`
	UniversityCode string  `json:"universityCode"`
	UniversityName string  `json:"universityName"`
	MajorCode      string  `json:"majorCode"`
	MajorName      string  `json:"majorName"`
	SubjectGroup   *string `json:"subjectGroup,omitempty"`
}

// PendingAspiration is a review queue row
type PendingAspiration struct {
	AspirationDetail
	CandidateName string `json:"candidateName"`
	CitizenID     string `json:"citizenId"`
}

// PriorityChange moves one aspiration to a new priority
type PriorityChange struct {
	AspirationID int64 `json:"aspirationId"`
	Priority     int   `json:"priority"`
}

// Decision is a terminal review transition
type Decision struct {
	AspirationID int64
	Status       AspirationStatus
	ReviewerID   int64
	Notes        *string
	DecidedAt    time.Time
}

// AspirationStats counts aspirations by state
type AspirationStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Paid     int64 `json:"paid"`
	Unpaid   int64 `json:"unpaid"`
}

// Add folds n aspirations with the given states into the counters
func (s *AspirationStats) Add(status AspirationStatus, paymentStatus PaymentStatus, n int64) {
	s.Total += n
	switch status {
	case AspirationPending:
		s.Pending += n
	case AspirationApproved:
		s.Approved += n
	case AspirationRejected:
		s.Rejected += n
	}
	if paymentStatus == PaymentStatusPaid {
		s.Paid += n
	} else {
		s.Unpaid += n
	}
}

// AspirationSnapshot is the read-only bundle handed to print/export consumers
type AspirationSnapshot struct {
	Candidate   *Candidate          `json:"candidate"`
	User        *User               `json:"user"`
	Exam        *Exam               `json:"exam,omitempty"`
	Aspirations []*AspirationDetail `json:"aspirations"`
	Stats       AspirationStats     `json:"stats"`
	TotalPaid   int64               `json:"totalPaid"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
