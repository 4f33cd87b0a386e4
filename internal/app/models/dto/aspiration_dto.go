package dto

// RegisterAspirationRequest registers a new ranked preference. ExamID
// defaults to the active exam.
type RegisterAspirationRequest struct {
	ExamID       *int64 `json:"examId,omitempty" binding:"omitempty,min=1" example:"1"`
	UniversityID int64  `json:"universityId" binding:"required,min=1" example:"1"`
	MajorID      int64  `json:"majorId" binding:"required,min=1" example:"1"`
	Priority     int    `json:"priority" binding:"required,min=1,max=10" example:"1"`
}

// PriorityChangeItem moves one aspiration to a new priority
type PriorityChangeItem struct {
	AspirationID int64 `json:"aspirationId" binding:"required,min=1" example:"3"`
	Priority     int   `json:"priority" binding:"required,min=1,max=10" example:"2"`
}

// ReorderAspirationsRequest is an all-or-nothing batch of priority changes
type ReorderAspirationsRequest struct {
	Changes []PriorityChangeItem `json:"changes" binding:"required,min=1,max=10,dive"`
}
