package dto

import "github.com/yigit/admission/internal/app/models"

// CreatePaymentRequest starts a fee payment for one aspiration
type CreatePaymentRequest struct {
	AspirationID int64  `json:"aspirationId" binding:"required,min=1" example:"1"`
	Method       string `json:"method" binding:"required" example:"momo"`
}

// VerifyPaymentRequest confirms a payment by transaction id
type VerifyPaymentRequest struct {
	TransactionID string `json:"transactionId" binding:"required" example:"TXN20250101120000a1b2c3d4"`
}

// VerifyPaymentResponse reports whether this call completed the payment
type VerifyPaymentResponse struct {
	Payment *models.Payment `json:"payment"`
	Applied bool            `json:"applied"`
}
