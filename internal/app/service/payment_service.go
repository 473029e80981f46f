package service

import (
	"errors"
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/policy"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentExists        = errors.New("a payment already exists for this request")
	ErrPaymentForbidden     = errors.New("no permission to access this payment")
	ErrInvalidPaymentStatus = errors.New("unknown payment status")
)

type PaymentService interface {
	CreatePayment(userID, requestID uint, amount *float64) (*model.Payment, error)
	GetPayment(userID uint, role model.UserRole, paymentID uint) (*model.Payment, error)
	UpdatePaymentStatus(userID uint, role model.UserRole, paymentID uint, status model.PaymentStatus) (*model.Payment, error)
	ListCustomerPayments(userID uint, limit, offset int) ([]model.Payment, int64, error)
	ListAllPayments(limit, offset int) ([]model.Payment, int64, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	requestRepo repository.RequestRepository
}

func NewPaymentService(paymentRepo repository.PaymentRepository, requestRepo repository.RequestRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		requestRepo: requestRepo,
	}
}

// CreatePayment records a payment for the caller's request. When no
// amount is given it defaults to the request's final price, falling back
// to the service list price.
func (s *paymentService) CreatePayment(userID, requestID uint, amount *float64) (*model.Payment, error) {
	logger.Info("Creating payment", map[string]interface{}{
		"user_id":    userID,
		"request_id": requestID,
	})

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !policy.CanPayRequest(userID, request) {
		return nil, ErrPaymentForbidden
	}

	if _, err := s.paymentRepo.FindByRequestID(requestID); err == nil {
		return nil, ErrPaymentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	resolved := 0.0
	switch {
	case amount != nil:
		resolved = *amount
	case request.FinalPrice != nil:
		resolved = *request.FinalPrice
	case request.Service != nil:
		resolved = request.Service.Price
	}

	payment := &model.Payment{
		RequestID: requestID,
		Amount:    resolved,
		Status:    model.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		logger.Error("Failed to create payment", err, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, err
	}

	logger.Info("Payment created", map[string]interface{}{
		"payment_id": payment.ID,
		"request_id": requestID,
		"amount":     resolved,
	})
	return payment, nil
}

func (s *paymentService) GetPayment(userID uint, role model.UserRole, paymentID uint) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if !policy.IsAdmin(role) && (payment.Request == nil || payment.Request.CustomerID != userID) {
		return nil, ErrPaymentForbidden
	}

	return payment, nil
}

func (s *paymentService) UpdatePaymentStatus(userID uint, role model.UserRole, paymentID uint, status model.PaymentStatus) (*model.Payment, error) {
	switch status {
	case model.PaymentStatusPending, model.PaymentStatusPaid, model.PaymentStatusFailed:
	default:
		return nil, ErrInvalidPaymentStatus
	}

	payment, err := s.GetPayment(userID, role, paymentID)
	if err != nil {
		return nil, err
	}

	payment.Status = status
	if status == model.PaymentStatusPaid {
		now := time.Now()
		payment.PaidAt = &now
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		logger.Error("Failed to update payment status", err, map[string]interface{}{
			"payment_id": paymentID,
		})
		return nil, err
	}

	logger.Info("Payment status updated", map[string]interface{}{
		"payment_id": paymentID,
		"status":     status,
	})
	return payment, nil
}

func (s *paymentService) ListCustomerPayments(userID uint, limit, offset int) ([]model.Payment, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.paymentRepo.FindByCustomer(userID, limit, offset)
}

func (s *paymentService) ListAllPayments(limit, offset int) ([]model.Payment, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.paymentRepo.FindAll(limit, offset)
}
