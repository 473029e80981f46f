package service

import (
	"errors"
	"fmt"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/policy"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceForbidden = errors.New("no permission to manage this service")
)

// ServiceInput carries service create/update fields.
type ServiceInput struct {
	CategoryID  uint
	Title       string
	Description string
	Price       float64
	City        string
	ImageURLs   []string
	IsActive    *bool
}

// CatalogService manages the services providers offer.
type CatalogService interface {
	CreateService(userID uint, input ServiceInput) (*model.Service, error)
	GetService(id uint) (*model.Service, error)
	ListServices(filter repository.ServiceFilter) ([]model.Service, int64, error)
	UpdateService(userID uint, role model.UserRole, serviceID uint, input ServiceInput) (*model.Service, error)
	DeleteService(userID uint, role model.UserRole, serviceID uint) error
}

type catalogService struct {
	db           *gorm.DB
	serviceRepo  repository.ServiceRepository
	providerRepo repository.ProviderRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(
	db *gorm.DB,
	serviceRepo repository.ServiceRepository,
	providerRepo repository.ProviderRepository,
	categoryRepo repository.CategoryRepository,
) CatalogService {
	return &catalogService{
		db:           db,
		serviceRepo:  serviceRepo,
		providerRepo: providerRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogService) CreateService(userID uint, input ServiceInput) (*model.Service, error) {
	logger.Info("Creating service", map[string]interface{}{
		"user_id": userID,
		"title":   input.Title,
	})

	provider, err := s.providerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProviderAccount
		}
		return nil, err
	}

	if !policy.CanCreateService(userID, provider) {
		logger.Warn("Service creation blocked: provider not approved", map[string]interface{}{
			"user_id":     userID,
			"provider_id": provider.ID,
			"status":      provider.Status,
		})
		return nil, ErrProviderNotApproved
	}

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	service := &model.Service{
		ProviderID:  provider.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		City:        input.City,
		ImageURLs:   model.StringArray(input.ImageURLs),
		IsActive:    true,
	}

	if err := s.serviceRepo.Create(service); err != nil {
		logger.Error("Failed to create service", err, map[string]interface{}{
			"provider_id": provider.ID,
		})
		return nil, err
	}

	logger.Info("Service created", map[string]interface{}{
		"service_id":  service.ID,
		"provider_id": provider.ID,
	})
	return service, nil
}

func (s *catalogService) GetService(id uint) (*model.Service, error) {
	service, err := s.serviceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return service, nil
}

func (s *catalogService) ListServices(filter repository.ServiceFilter) ([]model.Service, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.serviceRepo.List(filter)
}

func (s *catalogService) UpdateService(userID uint, role model.UserRole, serviceID uint, input ServiceInput) (*model.Service, error) {
	service, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if !policy.CanManageService(userID, role, service.Provider) {
		return nil, ErrServiceForbidden
	}

	if input.CategoryID != 0 && input.CategoryID != service.CategoryID {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		service.CategoryID = input.CategoryID
	}
	if input.Title != "" {
		service.Title = input.Title
	}
	if input.Description != "" {
		service.Description = input.Description
	}
	if input.Price > 0 {
		service.Price = input.Price
	}
	if input.City != "" {
		service.City = input.City
	}
	if input.ImageURLs != nil {
		service.ImageURLs = model.StringArray(input.ImageURLs)
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := s.serviceRepo.Update(service); err != nil {
		logger.Error("Failed to update service", err, map[string]interface{}{
			"service_id": serviceID,
		})
		return nil, err
	}

	logger.Info("Service updated", map[string]interface{}{
		"service_id": serviceID,
	})
	return service, nil
}

// DeleteService removes a service together with its dependent requests,
// reviews, payments and notifications in one transaction, then restores
// the provider's rating aggregate.
func (s *catalogService) DeleteService(userID uint, role model.UserRole, serviceID uint) error {
	service, err := s.GetService(serviceID)
	if err != nil {
		return err
	}

	if !policy.CanManageService(userID, role, service.Provider) {
		return ErrServiceForbidden
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during service deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"service_id": serviceID,
			})
		}
	}()

	var requestIDs []uint
	if err := tx.Model(&model.Request{}).Where("service_id = ?", serviceID).
		Pluck("id", &requestIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(requestIDs) > 0 {
		if err := tx.Where("request_id IN ?", requestIDs).Delete(&model.Review{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("request_id IN ?", requestIDs).Delete(&model.Payment{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("related_request_id IN ?", requestIDs).Delete(&model.Notification{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("service_id = ?", serviceID).Delete(&model.Request{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Delete(&model.Service{}, serviceID).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Deleting reviews changes the provider's aggregate
	if err := recomputeProviderRating(tx, service.ProviderID); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit service deletion", err, map[string]interface{}{
			"service_id": serviceID,
		})
		return err
	}

	logger.Info("Service deleted", map[string]interface{}{
		"service_id":       serviceID,
		"removed_requests": len(requestIDs),
	})
	return nil
}
