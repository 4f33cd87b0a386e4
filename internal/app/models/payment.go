package models

import "time"

// Payment is one fee payment attempt for an aspiration
type Payment struct {
	ID            int64             `json:"id" db:"id"`
	CandidateID   int64             `json:"candidateId" db:"candidate_id"`
	ExamID        int64             `json:"examId" db:"exam_id"`
	AspirationID  int64             `json:"aspirationId" db:"aspiration_id"`
	Amount        int64             `json:"amount" db:"amount" example:"50000"`
	Currency      string            `json:"currency" db:"currency" example:"VND"`
	Method        string            `json:"method" db:"method" example:"momo"`
	TransactionID string            `json:"transactionId" db:"transaction_id" example:"TXN20250101120000a1b2c3d4"`
	Status        TransactionStatus `json:"status" db:"status" example:"pending"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	PaymentDate   *time.Time        `json:"paymentDate,omitempty" db:"payment_date"`
}

// PaymentDetail joins a payment with the aspiration it pays for
type PaymentDetail struct {
	Payment
	Priority       int    `json:"priority"`
	UniversityName string `json:"universityName"`
	MajorName      string `json:"majorName"`
}

// PaymentConfig describes how aspiration fees are charged
type PaymentConfig struct {
	Fee      int64    `json:"fee" example:"50000"`
	Currency string   `json:"currency" example:"VND"`
	Methods  []string `json:"methods"`
}

// ReviewStats is the staff dashboard summary
type ReviewStats struct {
	Aspirations       AspirationStats `json:"aspirations"`
	CompletedPayments int64           `json:"completedPayments"`
	CollectedAmount   int64           `json:"collectedAmount"`
	ActiveCandidates  int64           `json:"activeCandidates"`
	Universities      int64           `json:"universities"`
}
