package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

// AdminController bundles the moderation endpoints: provider approval,
// profile change review, contact inbox and the payment ledger.
type AdminController struct {
	providerService service.ProviderService
	contactService  service.ContactService
	paymentService  service.PaymentService
}

func NewAdminController(
	providerService service.ProviderService,
	contactService service.ContactService,
	paymentService service.PaymentService,
) *AdminController {
	return &AdminController{
		providerService: providerService,
		contactService:  contactService,
		paymentService:  paymentService,
	}
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListPendingProviders returns providers awaiting review
// GET /api/v1/admin/providers/pending
func (ctrl *AdminController) ListPendingProviders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	providers, total, err := ctrl.providerService.ListPendingProviders(limit, offset)
	if err != nil {
		log.Error("Failed to list pending providers", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list pending providers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// ApproveProvider approves a pending provider
// POST /api/v1/admin/providers/:id/approve
func (ctrl *AdminController) ApproveProvider(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	provider, err := ctrl.providerService.ApproveProvider(adminID, providerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProviderNotFound):
			apperrors.NotFound(c, apperrors.ProviderNotFound, "Provider not found")
		case errors.Is(err, service.ErrProviderNotPending):
			apperrors.Conflict(c, apperrors.ProviderAlreadyApproved, "Provider has already been reviewed")
		default:
			log.Error("Failed to approve provider", err, map[string]interface{}{
				"provider_id": providerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "approve provider")
		}
		return
	}

	log.Info("Provider approved", map[string]interface{}{
		"provider_id": providerID,
		"admin_id":    adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Provider approved",
		"provider": provider,
	})
}

// RejectProvider rejects a pending provider with a reason
// POST /api/v1/admin/providers/:id/reject
func (ctrl *AdminController) RejectProvider(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A rejection reason is required")
		return
	}

	provider, err := ctrl.providerService.RejectProvider(adminID, providerID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProviderNotFound):
			apperrors.NotFound(c, apperrors.ProviderNotFound, "Provider not found")
		case errors.Is(err, service.ErrProviderNotPending):
			apperrors.Conflict(c, apperrors.ProviderAlreadyApproved, "Provider has already been reviewed")
		default:
			log.Error("Failed to reject provider", err, map[string]interface{}{
				"provider_id": providerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reject provider")
		}
		return
	}

	log.Info("Provider rejected", map[string]interface{}{
		"provider_id": providerID,
		"admin_id":    adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Provider rejected",
		"provider": provider,
	})
}

// ListPendingChangeRequests returns profile changes awaiting review
// GET /api/v1/admin/change-requests
func (ctrl *AdminController) ListPendingChangeRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	changeRequests, total, err := ctrl.providerService.ListPendingChangeRequests(limit, offset)
	if err != nil {
		log.Error("Failed to list pending change requests", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list change requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"change_requests": changeRequests,
		"total":           total,
		"limit":           limit,
		"offset":          offset,
	})
}

// ApproveChangeRequest applies a pending profile change
// POST /api/v1/admin/change-requests/:id/approve
func (ctrl *AdminController) ApproveChangeRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	changeRequestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	changeRequest, err := ctrl.providerService.ApproveChangeRequest(adminID, changeRequestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChangeRequestNotFound):
			apperrors.NotFound(c, apperrors.ChangeRequestNotFound, "Change request not found")
		case errors.Is(err, service.ErrChangeRequestFinalized):
			apperrors.Conflict(c, apperrors.ChangeRequestFinalized, "Change request has already been reviewed")
		default:
			log.Error("Failed to approve change request", err, map[string]interface{}{
				"change_request_id": changeRequestID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "approve change request")
		}
		return
	}

	log.Info("Change request approved", map[string]interface{}{
		"change_request_id": changeRequestID,
		"admin_id":          adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":        "Change request approved",
		"change_request": changeRequest,
	})
}

// RejectChangeRequest rejects a pending profile change with a reason
// POST /api/v1/admin/change-requests/:id/reject
func (ctrl *AdminController) RejectChangeRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	changeRequestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A rejection reason is required")
		return
	}

	changeRequest, err := ctrl.providerService.RejectChangeRequest(adminID, changeRequestID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChangeRequestNotFound):
			apperrors.NotFound(c, apperrors.ChangeRequestNotFound, "Change request not found")
		case errors.Is(err, service.ErrChangeRequestFinalized):
			apperrors.Conflict(c, apperrors.ChangeRequestFinalized, "Change request has already been reviewed")
		default:
			log.Error("Failed to reject change request", err, map[string]interface{}{
				"change_request_id": changeRequestID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reject change request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Change request rejected",
		"change_request": changeRequest,
	})
}

// ListContactMessages returns the contact inbox
// GET /api/v1/admin/contact-messages?unread_only=
func (ctrl *AdminController) ListContactMessages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))

	messages, total, err := ctrl.contactService.ListMessages(unreadOnly, limit, offset)
	if err != nil {
		log.Error("Failed to list contact messages", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list contact messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// MarkContactMessageRead marks one contact message as read
// PATCH /api/v1/admin/contact-messages/:id/read
func (ctrl *AdminController) MarkContactMessageRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.contactService.MarkMessageRead(messageID); err != nil {
		if errors.Is(err, service.ErrContactMessageNotFound) {
			apperrors.NotFound(c, apperrors.ContactMessageNotFound, "Contact message not found")
			return
		}
		log.Error("Failed to mark contact message as read", err, map[string]interface{}{
			"message_id": messageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark contact message as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact message marked as read",
	})
}

// DeleteContactMessage removes a contact message
// DELETE /api/v1/admin/contact-messages/:id
func (ctrl *AdminController) DeleteContactMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.contactService.DeleteMessage(messageID); err != nil {
		if errors.Is(err, service.ErrContactMessageNotFound) {
			apperrors.NotFound(c, apperrors.ContactMessageNotFound, "Contact message not found")
			return
		}
		log.Error("Failed to delete contact message", err, map[string]interface{}{
			"message_id": messageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete contact message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact message deleted",
	})
}

// ListAllPayments returns the full payment ledger
// GET /api/v1/admin/payments
func (ctrl *AdminController) ListAllPayments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	payments, total, err := ctrl.paymentService.ListAllPayments(limit, offset)
	if err != nil {
		log.Error("Failed to list payments", err, nil)
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
