package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/policy"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

type ProviderController struct {
	providerService service.ProviderService
	reviewService   service.ReviewService
}

func NewProviderController(providerService service.ProviderService, reviewService service.ReviewService) *ProviderController {
	return &ProviderController{
		providerService: providerService,
		reviewService:   reviewService,
	}
}

type UpdateDocumentsRequest struct {
	CVURL          string `json:"cv_url"`
	CertificateURL string `json:"certificate_url"`
}

type CreateChangeRequestRequest struct {
	NewSpecialization string `json:"new_specialization"`
	NewBio            string `json:"new_bio"`
	NewCVURL          string `json:"new_cv_url"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// ListProviders returns approved providers
// GET /api/v1/providers
func (ctrl *ProviderController) ListProviders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	specialization := c.Query("specialization")

	providers, total, err := ctrl.providerService.ListProviders(specialization, limit, offset)
	if err != nil {
		log.Error("Failed to list providers", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list providers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetProvider returns a single provider profile
// GET /api/v1/providers/:id
func (ctrl *ProviderController) GetProvider(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Admins see unapproved profiles too
	role, _ := middleware.GetUserRole(c)
	includeUnapproved := policy.IsAdmin(role)

	provider, err := ctrl.providerService.GetProvider(providerID, includeUnapproved)
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			apperrors.NotFound(c, apperrors.ProviderNotFound, "Provider not found")
			return
		}
		log.Error("Failed to get provider", err, map[string]interface{}{
			"provider_id": providerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get provider")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": provider,
	})
}

// GetProviderReviews returns reviews for a provider
// GET /api/v1/providers/:id/reviews
func (ctrl *ProviderController) GetProviderReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	providerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset := paginationParams(c)

	reviews, total, err := ctrl.reviewService.ListProviderReviews(providerID, limit, offset)
	if err != nil {
		log.Error("Failed to list provider reviews", err, map[string]interface{}{
			"provider_id": providerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list provider reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetMyProfile returns the caller's provider profile
// GET /api/v1/provider/profile
func (ctrl *ProviderController) GetMyProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	provider, err := ctrl.providerService.GetProviderByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotProviderAccount) {
			apperrors.NotFound(c, apperrors.ProviderNotFound, "This account has no provider profile")
			return
		}
		log.Error("Failed to get provider profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get provider profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": provider,
	})
}

// UpdateDocuments replaces the caller's CV and certificate links
// PUT /api/v1/provider/documents
func (ctrl *ProviderController) UpdateDocuments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	var req UpdateDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid document details")
		return
	}

	provider, err := ctrl.providerService.UpdateDocuments(userID, req.CVURL, req.CertificateURL)
	if err != nil {
		if errors.Is(err, service.ErrNotProviderAccount) {
			apperrors.NotFound(c, apperrors.ProviderNotFound, "This account has no provider profile")
			return
		}
		log.Error("Failed to update provider documents", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update provider documents")
		return
	}

	log.Info("Provider documents updated", map[string]interface{}{
		"provider_id": provider.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Documents updated successfully",
		"provider": provider,
	})
}

// CreateChangeRequest submits a profile change for admin review
// POST /api/v1/provider/change-requests
func (ctrl *ProviderController) CreateChangeRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	var req CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid change request details")
		return
	}

	changeRequest, err := ctrl.providerService.CreateChangeRequest(userID, req.NewSpecialization, req.NewBio, req.NewCVURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotProviderAccount):
			apperrors.NotFound(c, apperrors.ProviderNotFound, "This account has no provider profile")
		case errors.Is(err, service.ErrChangeRequestEmpty):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "At least one field must be changed")
		case errors.Is(err, service.ErrChangeRequestPending):
			apperrors.Conflict(c, apperrors.ResourceConflict, "A pending change request already exists")
		default:
			log.Error("Failed to create change request", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create change request")
		}
		return
	}

	log.Info("Profile change request submitted", map[string]interface{}{
		"change_request_id": changeRequest.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Change request submitted for review",
		"change_request": changeRequest,
	})
}

// ListMyChangeRequests returns the caller's change request history
// GET /api/v1/provider/change-requests
func (ctrl *ProviderController) ListMyChangeRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	changeRequests, err := ctrl.providerService.ListMyChangeRequests(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotProviderAccount) {
			apperrors.NotFound(c, apperrors.ProviderNotFound, "This account has no provider profile")
			return
		}
		log.Error("Failed to list change requests", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list change requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"change_requests": changeRequests,
	})
}

func roleFromContext(c *gin.Context) model.UserRole {
	role, _ := middleware.GetUserRole(c)
	return role
}
