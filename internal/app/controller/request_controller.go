package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

type RequestController struct {
	requestService service.RequestService
}

func NewRequestController(requestService service.RequestService) *RequestController {
	return &RequestController{requestService: requestService}
}

type CreateRequestRequest struct {
	ServiceID     uint      `json:"service_id" binding:"required"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Details       string    `json:"details"`
	AddressLine   string    `json:"address_line" binding:"required"`
	City          string    `json:"city" binding:"required"`
}

type UpdateRequestStatusRequest struct {
	Status     string   `json:"status" binding:"required"`
	FinalPrice *float64 `json:"final_price"`
}

// CreateRequest books a service
// POST /api/v1/requests
func (ctrl *RequestController) CreateRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create request payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid booking details")
		return
	}

	request, err := ctrl.requestService.CreateRequest(userID, req.ServiceID, req.ScheduledDate, req.Details, req.AddressLine, req.City)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			apperrors.NotFound(c, apperrors.ServiceNotFound, "Service not found")
		case errors.Is(err, service.ErrServiceInactive):
			apperrors.BadRequest(c, apperrors.ServiceInactive, "This service is not accepting bookings")
		case errors.Is(err, service.ErrProviderNotApproved):
			apperrors.BadRequest(c, apperrors.ProviderNotApproved, "This provider is not available for bookings")
		case errors.Is(err, service.ErrOwnServiceRequest):
			apperrors.BadRequest(c, apperrors.RequestOwnService, "You cannot book your own service")
		default:
			log.Error("Failed to create request", err, map[string]interface{}{
				"user_id":    userID,
				"service_id": req.ServiceID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create request")
		}
		return
	}

	log.Info("Booking request created", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking request created successfully",
		"request": request,
	})
}

// GetRequest returns a single request (customer, provider or admin)
// GET /api/v1/requests/:id
func (ctrl *RequestController) GetRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := ctrl.requestService.GetRequest(userID, roleFromContext(c), requestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			apperrors.NotFound(c, apperrors.RequestNotFound, "Request not found")
		case errors.Is(err, service.ErrRequestForbidden):
			apperrors.Forbidden(c, "You do not have access to this request")
		default:
			log.Error("Failed to get request", err, map[string]interface{}{
				"request_id": requestID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
	})
}

// ListMyRequests returns the caller's bookings as a customer
// GET /api/v1/requests
func (ctrl *RequestController) ListMyRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	limit, offset := paginationParams(c)
	requests, total, err := ctrl.requestService.ListCustomerRequests(userID, limit, offset)
	if err != nil {
		log.Error("Failed to list customer requests", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListProviderRequests returns bookings for the caller's services
// GET /api/v1/provider/requests
func (ctrl *RequestController) ListProviderRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	limit, offset := paginationParams(c)
	requests, total, err := ctrl.requestService.ListProviderRequests(userID, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrNotProviderAccount) {
			apperrors.NotFound(c, apperrors.ProviderNotFound, "This account has no provider profile")
			return
		}
		log.Error("Failed to list provider requests", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list provider requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// UpdateStatus drives the booking lifecycle
// PATCH /api/v1/requests/:id/status
func (ctrl *RequestController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	request, err := ctrl.requestService.UpdateStatus(userID, roleFromContext(c), requestID, model.RequestStatus(req.Status), req.FinalPrice)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			apperrors.NotFound(c, apperrors.RequestNotFound, "Request not found")
		case errors.Is(err, service.ErrRequestForbidden):
			apperrors.Forbidden(c, "You do not have access to this request")
		case errors.Is(err, service.ErrInvalidStatus):
			apperrors.BadRequest(c, apperrors.RequestInvalidStatus, "Unknown request status")
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.BadRequest(c, apperrors.RequestInvalidTransition, "This status change is not allowed")
		case errors.Is(err, service.ErrFinalPriceNotAllowed):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Final price may only be set when completing a request")
		default:
			log.Error("Failed to update request status", err, map[string]interface{}{
				"request_id": requestID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update request status")
		}
		return
	}

	log.Info("Request status updated", map[string]interface{}{
		"request_id": requestID,
		"status":     request.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Request status updated",
		"request": request,
	})
}

// DeleteRequest removes a booking that has no review
// DELETE /api/v1/requests/:id
func (ctrl *RequestController) DeleteRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.requestService.DeleteRequest(userID, roleFromContext(c), requestID); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			apperrors.NotFound(c, apperrors.RequestNotFound, "Request not found")
		case errors.Is(err, service.ErrRequestForbidden):
			apperrors.Forbidden(c, "You do not have access to this request")
		case errors.Is(err, service.ErrRequestHasReview):
			apperrors.Conflict(c, apperrors.RequestHasReview, "Requests with a review cannot be deleted")
		default:
			log.Error("Failed to delete request", err, map[string]interface{}{
				"request_id": requestID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete request")
		}
		return
	}

	log.Info("Request deleted", map[string]interface{}{
		"request_id": requestID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Request deleted successfully",
	})
}
