package dto

// ApproveRequest carries optional reviewer notes
type ApproveRequest struct {
	Notes *string `json:"notes,omitempty" binding:"omitempty,max=1000" example:"đạt yêu cầu"`
}

// RejectRequest carries the rejection reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=1000" example:"Không đủ điều kiện"`
}
