package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

type CreatePaymentRequest struct {
	RequestID uint     `json:"request_id" binding:"required"`
	Amount    *float64 `json:"amount"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid failed"`
}

// CreatePayment records a payment for the caller's booking
// POST /api/v1/payments
func (ctrl *PaymentController) CreatePayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid payment details")
		return
	}

	payment, err := ctrl.paymentService.CreatePayment(userID, req.RequestID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			apperrors.NotFound(c, apperrors.RequestNotFound, "Request not found")
		case errors.Is(err, service.ErrPaymentForbidden):
			apperrors.Forbidden(c, "You can only pay for your own bookings")
		case errors.Is(err, service.ErrPaymentExists):
			apperrors.Conflict(c, apperrors.PaymentAlreadyExists, "A payment already exists for this request")
		default:
			log.Error("Failed to create payment", err, map[string]interface{}{
				"request_id": req.RequestID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create payment")
		}
		return
	}

	log.Info("Payment recorded", map[string]interface{}{
		"payment_id": payment.ID,
		"request_id": req.RequestID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

// GetPayment returns a single payment (owner or admin)
// GET /api/v1/payments/:id
func (ctrl *PaymentController) GetPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := ctrl.paymentService.GetPayment(userID, roleFromContext(c), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			apperrors.NotFound(c, apperrors.PaymentNotFound, "Payment not found")
		case errors.Is(err, service.ErrPaymentForbidden):
			apperrors.Forbidden(c, "You do not have access to this payment")
		default:
			log.Error("Failed to get payment", err, map[string]interface{}{
				"payment_id": paymentID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": payment,
	})
}

// UpdatePaymentStatus marks a payment as paid or failed
// PATCH /api/v1/payments/:id/status
func (ctrl *PaymentController) UpdatePaymentStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status must be pending, paid or failed")
		return
	}

	payment, err := ctrl.paymentService.UpdatePaymentStatus(userID, roleFromContext(c), paymentID, model.PaymentStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			apperrors.NotFound(c, apperrors.PaymentNotFound, "Payment not found")
		case errors.Is(err, service.ErrPaymentForbidden):
			apperrors.Forbidden(c, "You do not have access to this payment")
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status must be pending, paid or failed")
		default:
			log.Error("Failed to update payment status", err, map[string]interface{}{
				"payment_id": paymentID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update payment status")
		}
		return
	}

	log.Info("Payment status updated", map[string]interface{}{
		"payment_id": paymentID,
		"status":     payment.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated",
		"payment": payment,
	})
}

// ListMyPayments returns the caller's payment history
// GET /api/v1/payments
func (ctrl *PaymentController) ListMyPayments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	limit, offset := paginationParams(c)
	payments, total, err := ctrl.paymentService.ListCustomerPayments(userID, limit, offset)
	if err != nil {
		log.Error("Failed to list payments", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
