package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/policy"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound      = errors.New("request not found")
	ErrRequestForbidden     = errors.New("no permission to access this request")
	ErrInvalidTransition    = errors.New("illegal status transition")
	ErrInvalidStatus        = errors.New("unknown request status")
	ErrRequestHasReview     = errors.New("request has a review and cannot be deleted")
	ErrServiceInactive      = errors.New("service is not active")
	ErrOwnServiceRequest    = errors.New("providers cannot book their own services")
	ErrFinalPriceNotAllowed = errors.New("final price may only be set when completing a request")
)

type RequestService interface {
	CreateRequest(userID, serviceID uint, scheduledDate time.Time, details, addressLine, city string) (*model.Request, error)
	GetRequest(userID uint, role model.UserRole, requestID uint) (*model.Request, error)
	ListCustomerRequests(userID uint, limit, offset int) ([]model.Request, int64, error)
	ListProviderRequests(userID uint, limit, offset int) ([]model.Request, int64, error)
	UpdateStatus(userID uint, role model.UserRole, requestID uint, target model.RequestStatus, finalPrice *float64) (*model.Request, error)
	DeleteRequest(userID uint, role model.UserRole, requestID uint) error
	ExpireStaleRequests(gracePeriod time.Duration) (int, error)
}

type requestService struct {
	db                  *gorm.DB
	requestRepo         repository.RequestRepository
	serviceRepo         repository.ServiceRepository
	providerRepo        repository.ProviderRepository
	reviewRepo          *repository.ReviewRepository
	notificationService NotificationService
}

func NewRequestService(
	db *gorm.DB,
	requestRepo repository.RequestRepository,
	serviceRepo repository.ServiceRepository,
	providerRepo repository.ProviderRepository,
	reviewRepo *repository.ReviewRepository,
	notificationService NotificationService,
) RequestService {
	return &requestService{
		db:                  db,
		requestRepo:         requestRepo,
		serviceRepo:         serviceRepo,
		providerRepo:        providerRepo,
		reviewRepo:          reviewRepo,
		notificationService: notificationService,
	}
}

func (s *requestService) CreateRequest(userID, serviceID uint, scheduledDate time.Time, details, addressLine, city string) (*model.Request, error) {
	logger.Info("Creating service request", map[string]interface{}{
		"user_id":    userID,
		"service_id": serviceID,
	})

	service, err := s.serviceRepo.FindByID(serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if service.Provider == nil || !service.Provider.IsApproved() {
		logger.Warn("Request rejected: provider not approved", map[string]interface{}{
			"service_id": serviceID,
		})
		return nil, ErrProviderNotApproved
	}
	if service.Provider.UserID == userID {
		return nil, ErrOwnServiceRequest
	}

	request := &model.Request{
		CustomerID:    userID,
		ServiceID:     serviceID,
		Status:        model.RequestStatusPending,
		ScheduledDate: scheduledDate,
		Details:       details,
		AddressLine:   addressLine,
		City:          city,
	}

	if err := s.requestRepo.Create(request); err != nil {
		logger.Error("Failed to create request", err, map[string]interface{}{
			"user_id":    userID,
			"service_id": serviceID,
		})
		return nil, err
	}

	// Tell the provider about the new booking
	title := "New booking request"
	content := fmt.Sprintf("You have a new request for %q scheduled on %s.",
		service.Title, scheduledDate.Format("2006-01-02"))
	if err := s.notificationService.Notify(service.Provider.UserID, model.NotificationTypeNewRequest,
		title, content, fmt.Sprintf("/provider/requests/%d", request.ID), &request.ID); err != nil {
		logger.Error("Failed to notify provider of new request", err, map[string]interface{}{
			"request_id": request.ID,
		})
	}

	logger.Info("Service request created", map[string]interface{}{
		"request_id": request.ID,
		"service_id": serviceID,
	})
	return request, nil
}

func (s *requestService) GetRequest(userID uint, role model.UserRole, requestID uint) (*model.Request, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !policy.CanViewRequest(userID, role, request, s.providerUserID(request)) {
		return nil, ErrRequestForbidden
	}

	return request, nil
}

func (s *requestService) providerUserID(request *model.Request) uint {
	if request.Service != nil && request.Service.Provider != nil {
		return request.Service.Provider.UserID
	}
	return 0
}

func (s *requestService) ListCustomerRequests(userID uint, limit, offset int) ([]model.Request, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.requestRepo.FindByCustomer(userID, limit, offset)
}

func (s *requestService) ListProviderRequests(userID uint, limit, offset int) ([]model.Request, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	provider, err := s.providerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotProviderAccount
		}
		return nil, 0, err
	}

	return s.requestRepo.FindByProvider(provider.ID, limit, offset)
}

// UpdateStatus drives the request lifecycle. Legality of the edge and of
// the acting party are both enforced; final price may only accompany the
// completed transition.
func (s *requestService) UpdateStatus(userID uint, role model.UserRole, requestID uint, target model.RequestStatus, finalPrice *float64) (*model.Request, error) {
	logger.Info("Updating request status", map[string]interface{}{
		"user_id":    userID,
		"request_id": requestID,
		"target":     target,
	})

	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}
	if finalPrice != nil && target != model.RequestStatusCompleted {
		return nil, ErrFinalPriceNotAllowed
	}

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	providerUserID := s.providerUserID(request)
	if !policy.CanViewRequest(userID, role, request, providerUserID) {
		return nil, ErrRequestForbidden
	}
	if !policy.CanTransitionRequest(userID, role, request, providerUserID, target) {
		logger.Warn("Illegal request transition", map[string]interface{}{
			"request_id": requestID,
			"from":       request.Status,
			"to":         target,
			"user_id":    userID,
		})
		return nil, ErrInvalidTransition
	}

	previous := request.Status
	request.Status = target
	if target == model.RequestStatusCompleted && finalPrice != nil {
		request.FinalPrice = finalPrice
	}

	if err := s.requestRepo.Update(request); err != nil {
		logger.Error("Failed to update request status", err, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, err
	}

	s.notifyStatusChange(request, previous, userID)

	logger.Info("Request status updated", map[string]interface{}{
		"request_id": requestID,
		"from":       previous,
		"to":         target,
	})
	return request, nil
}

func (s *requestService) notifyStatusChange(request *model.Request, previous model.RequestStatus, actorID uint) {
	serviceTitle := ""
	if request.Service != nil {
		serviceTitle = request.Service.Title
	}

	// Customer cancellation informs the provider; everything else informs
	// the customer.
	if request.Status == model.RequestStatusCancelled && actorID == request.CustomerID {
		providerUserID := s.providerUserID(request)
		if providerUserID == 0 {
			return
		}
		content := fmt.Sprintf("The customer cancelled the booking for %q.", serviceTitle)
		if err := s.notificationService.Notify(providerUserID, model.NotificationTypeRequestCancelled,
			"Booking cancelled", content, fmt.Sprintf("/provider/requests/%d", request.ID), &request.ID); err != nil {
			logger.Error("Failed to notify provider of cancellation", err, map[string]interface{}{
				"request_id": request.ID,
			})
		}
		return
	}

	content := fmt.Sprintf("Your request for %q changed from %s to %s.", serviceTitle, previous, request.Status)
	if err := s.notificationService.Notify(request.CustomerID, model.NotificationTypeRequestStatus,
		"Booking status updated", content, fmt.Sprintf("/requests/%d", request.ID), &request.ID); err != nil {
		logger.Error("Failed to notify customer of status change", err, map[string]interface{}{
			"request_id": request.ID,
		})
	}
}

// ExpireStaleRequests cancels pending requests whose scheduled date
// passed more than gracePeriod ago and tells the customer. Returns the
// number of cancelled requests.
func (s *requestService) ExpireStaleRequests(gracePeriod time.Duration) (int, error) {
	cutoff := time.Now().Add(-gracePeriod)

	stale, err := s.requestRepo.FindStalePending(cutoff)
	if err != nil {
		logger.Error("Failed to load stale pending requests", err)
		return 0, err
	}

	cancelled := 0
	for i := range stale {
		request := &stale[i]
		request.Status = model.RequestStatusCancelled
		if err := s.requestRepo.Update(request); err != nil {
			logger.Error("Failed to auto-cancel stale request", err, map[string]interface{}{
				"request_id": request.ID,
			})
			continue
		}
		cancelled++

		serviceTitle := ""
		if request.Service != nil {
			serviceTitle = request.Service.Title
		}
		content := fmt.Sprintf("Your request for %q was cancelled because the provider did not respond before the scheduled date.", serviceTitle)
		if err := s.notificationService.Notify(request.CustomerID, model.NotificationTypeRequestCancelled,
			"Booking expired", content, fmt.Sprintf("/requests/%d", request.ID), &request.ID); err != nil {
			logger.Error("Failed to notify customer of expired request", err, map[string]interface{}{
				"request_id": request.ID,
			})
		}
	}

	if cancelled > 0 {
		logger.Info("Auto-cancelled stale pending requests", map[string]interface{}{
			"count": cancelled,
		})
	}
	return cancelled, nil
}

// DeleteRequest removes a request and its dependent payment and
// notification rows in one transaction. Requests that have been reviewed
// are kept for the provider's rating history.
func (s *requestService) DeleteRequest(userID uint, role model.UserRole, requestID uint) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	if !policy.CanDeleteRequest(userID, role, request) {
		return ErrRequestForbidden
	}

	hasReview, err := s.reviewRepo.ExistsForRequest(requestID)
	if err != nil {
		return err
	}
	if hasReview {
		logger.Warn("Request deletion blocked: review exists", map[string]interface{}{
			"request_id": requestID,
		})
		return ErrRequestHasReview
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during request deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"request_id": requestID,
			})
		}
	}()

	if err := tx.Where("request_id = ?", requestID).Delete(&model.Payment{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("related_request_id = ?", requestID).Delete(&model.Notification{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&model.Request{}, requestID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit request deletion", err, map[string]interface{}{
			"request_id": requestID,
		})
		return err
	}

	logger.Info("Request deleted", map[string]interface{}{
		"request_id": requestID,
	})
	return nil
}
