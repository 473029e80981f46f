package repository

import (
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(request *model.Request) error
	FindByID(id uint) (*model.Request, error)
	FindByCustomer(customerID uint, limit, offset int) ([]model.Request, int64, error)
	FindByProvider(providerID uint, limit, offset int) ([]model.Request, int64, error)
	FindStalePending(cutoff time.Time) ([]model.Request, error)
	Update(request *model.Request) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(request *model.Request) error {
	return r.db.Create(request).Error
}

func (r *requestRepository) FindByID(id uint) (*model.Request, error) {
	var request model.Request
	err := r.db.Preload("Customer").
		Preload("Service").
		Preload("Service.Provider").
		Preload("Service.Category").
		Preload("Review").
		Preload("Payment").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) FindByCustomer(customerID uint, limit, offset int) ([]model.Request, int64, error) {
	var requests []model.Request
	var total int64

	query := r.db.Model(&model.Request{}).Where("customer_id = ?", customerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Service").Preload("Service.Category").Preload("Review").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) FindByProvider(providerID uint, limit, offset int) ([]model.Request, int64, error) {
	var requests []model.Request
	var total int64

	query := r.db.Model(&model.Request{}).
		Joins("JOIN services ON services.id = requests.service_id").
		Where("services.provider_id = ?", providerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Customer").Preload("Service").Preload("Service.Category").
		Order("requests.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// FindStalePending returns pending requests whose scheduled date passed
// before the cutoff. Used by the scheduler's auto-cancel sweep.
func (r *requestRepository) FindStalePending(cutoff time.Time) ([]model.Request, error) {
	var requests []model.Request
	err := r.db.Preload("Service").
		Where("status = ? AND scheduled_date < ?", model.RequestStatusPending, cutoff).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) Update(request *model.Request) error {
	return r.db.Save(request).Error
}
