package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin     RoleType = "admin"
	RoleManager   RoleType = "manager"
	RoleCandidate RoleType = "candidate"
)

// IsStaff reports whether the role may review aspirations
func (r RoleType) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCandidate:
		return true
	}
	return false
}

// ExamStatus is the lifecycle state of an admission cycle
type ExamStatus string

const (
	ExamUpcoming  ExamStatus = "upcoming"
	ExamActive    ExamStatus = "active"
	ExamCompleted ExamStatus = "completed"
)

// AspirationStatus is the review state of an aspiration
type AspirationStatus string

const (
	AspirationPending  AspirationStatus = "pending"
	AspirationApproved AspirationStatus = "approved"
	AspirationRejected AspirationStatus = "rejected"
)

// IsFinal reports whether no further review transition is allowed
func (s AspirationStatus) IsFinal() bool {
	return s == AspirationApproved || s == AspirationRejected
}

// PaymentStatus is the fee state carried on an aspiration
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// TransactionStatus is the state of a single payment attempt
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
)

// Principal is the verified identity behind a session token
type Principal struct {
	UserID   int64    `json:"userId"`
	Username string   `json:"username"`
	Role     RoleType `json:"role"`
}
