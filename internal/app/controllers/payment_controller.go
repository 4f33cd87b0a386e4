package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/admission/internal/app/models/dto"
	"github.com/yigit/admission/internal/app/services"
	"github.com/yigit/admission/internal/middleware"
)

// PaymentController handles aspiration fee payments
type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Config godoc
// @Summary Payment configuration
// @Description Fee per aspiration, currency and accepted methods
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.PaymentConfig}
// @Router /payments/config [get]
func (c *PaymentController) Config(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.paymentService.Config(), ""))
}

// Create godoc
// @Summary Create a payment
// @Description Opens a pending payment for one of the caller's aspirations
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.APIResponse{data=models.Payment}
// @Failure 400 {object} dto.ErrorResponse "Unknown payment method"
// @Failure 404 {object} dto.ErrorResponse "Aspiration not found"
// @Failure 409 {object} dto.ErrorResponse "already_paid"
// @Router /payments [post]
func (c *PaymentController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	payment, err := c.paymentService.Create(ctx.Request.Context(), p, req.AspirationID, req.Method)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(payment, "Payment created"))
}

// Verify godoc
// @Summary Verify a payment
// @Description Completes a pending payment and marks its aspiration paid. Repeating the call is a no-op with applied=false.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyPaymentRequest true "Transaction"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyPaymentResponse}
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "already_paid"
// @Router /payments/verify [post]
func (c *PaymentController) Verify(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	payment, applied, err := c.paymentService.Verify(ctx.Request.Context(), p, req.TransactionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Payment verified"
	if !applied {
		message = "Payment was already verified"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.VerifyPaymentResponse{Payment: payment, Applied: applied}, message))
}

// History godoc
// @Summary Payment history
// @Description The caller's payments, newest first
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PaymentDetail}
// @Router /payments/history [get]
func (c *PaymentController) History(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	payments, err := c.paymentService.History(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payments, ""))
}
