package repository

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/gorm"
)

// ServiceFilter narrows the public service listing.
type ServiceFilter struct {
	CategoryID *uint
	ProviderID *uint
	City       string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ServiceRepository interface {
	Create(service *model.Service) error
	FindByID(id uint) (*model.Service, error)
	List(filter ServiceFilter) ([]model.Service, int64, error)
	Update(service *model.Service) error
	Delete(id uint) error
	CountOpenRequests(serviceID uint) (int64, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(service *model.Service) error {
	return r.db.Create(service).Error
}

func (r *serviceRepository) FindByID(id uint) (*model.Service, error) {
	var service model.Service
	err := r.db.Preload("Provider").Preload("Provider.User").Preload("Category").
		First(&service, id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) List(filter ServiceFilter) ([]model.Service, int64, error) {
	var services []model.Service
	var total int64

	query := r.db.Model(&model.Service{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Provider").Preload("Provider.User").Preload("Category").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&services).Error
	if err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

func (r *serviceRepository) Update(service *model.Service) error {
	return r.db.Save(service).Error
}

func (r *serviceRepository) Delete(id uint) error {
	return r.db.Delete(&model.Service{}, id).Error
}

// CountOpenRequests counts requests for a service that are not in a final state.
func (r *serviceRepository) CountOpenRequests(serviceID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Request{}).
		Where("service_id = ? AND status IN ?", serviceID,
			[]model.RequestStatus{model.RequestStatusPending, model.RequestStatusAccepted}).
		Count(&count).Error
	return count, err
}
