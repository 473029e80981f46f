package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	apperrors "github.com/khadamati/khadamati-backend/internal/errors"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

type ServiceController struct {
	catalogService service.CatalogService
}

func NewServiceController(catalogService service.CatalogService) *ServiceController {
	return &ServiceController{catalogService: catalogService}
}

type CreateServiceRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	City        string   `json:"city" binding:"required"`
	ImageURLs   []string `json:"image_urls"`
}

type UpdateServiceRequest struct {
	CategoryID  uint     `json:"category_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	City        string   `json:"city"`
	ImageURLs   []string `json:"image_urls"`
	IsActive    *bool    `json:"is_active"`
}

// ListServices returns active services with optional filters
// GET /api/v1/services?category_id=&provider_id=&city=
func (ctrl *ServiceController) ListServices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	filter := repository.ServiceFilter{
		City:       c.Query("city"),
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := c.Query("provider_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			providerID := uint(id)
			filter.ProviderID = &providerID
		}
	}

	services, total, err := ctrl.catalogService.ListServices(filter)
	if err != nil {
		log.Error("Failed to list services", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// GetService returns a single service with its provider and category
// GET /api/v1/services/:id
func (ctrl *ServiceController) GetService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc, err := ctrl.catalogService.GetService(serviceID)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			apperrors.NotFound(c, apperrors.ServiceNotFound, "Service not found")
			return
		}
		log.Error("Failed to get service", err, map[string]interface{}{
			"service_id": serviceID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get service")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service": svc,
	})
}

// CreateService creates a new service listing (approved providers only)
// POST /api/v1/services
func (ctrl *ServiceController) CreateService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create service request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid service details")
		return
	}

	svc, err := ctrl.catalogService.CreateService(userID, service.ServiceInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		City:        req.City,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotProviderAccount):
			apperrors.Forbidden(c, "Only provider accounts can list services")
		case errors.Is(err, service.ErrProviderNotApproved):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.ProviderNotApproved, "Your provider account has not been approved yet")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			log.Error("Failed to create service", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create service")
		}
		return
	}

	log.Info("Service created", map[string]interface{}{
		"service_id": svc.ID,
		"user_id":    userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service created successfully",
		"service": svc,
	})
}

// UpdateService updates a service listing (owner or admin)
// PUT /api/v1/services/:id
func (ctrl *ServiceController) UpdateService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid service details")
		return
	}

	svc, err := ctrl.catalogService.UpdateService(userID, roleFromContext(c), serviceID, service.ServiceInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		City:        req.City,
		ImageURLs:   req.ImageURLs,
		IsActive:    req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			apperrors.NotFound(c, apperrors.ServiceNotFound, "Service not found")
		case errors.Is(err, service.ErrServiceForbidden):
			apperrors.Forbidden(c, "You can only manage your own services")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			log.Error("Failed to update service", err, map[string]interface{}{
				"service_id": serviceID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update service")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service updated successfully",
		"service": svc,
	})
}

// DeleteService removes a service and its booking history (owner or admin)
// DELETE /api/v1/services/:id
func (ctrl *ServiceController) DeleteService(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in")
		return
	}

	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteService(userID, roleFromContext(c), serviceID); err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			apperrors.NotFound(c, apperrors.ServiceNotFound, "Service not found")
		case errors.Is(err, service.ErrServiceForbidden):
			apperrors.Forbidden(c, "You can only manage your own services")
		default:
			log.Error("Failed to delete service", err, map[string]interface{}{
				"service_id": serviceID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete service")
		}
		return
	}

	log.Info("Service deleted", map[string]interface{}{
		"service_id": serviceID,
		"user_id":    userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Service deleted successfully",
	})
}
