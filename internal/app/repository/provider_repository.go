package repository

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/gorm"
)

type ProviderRepository interface {
	Create(provider *model.Provider) error
	FindByID(id uint) (*model.Provider, error)
	FindByIDWithUser(id uint) (*model.Provider, error)
	FindByUserID(userID uint) (*model.Provider, error)
	List(status *model.ApprovalStatus, specialization string, limit, offset int) ([]model.Provider, int64, error)
	Update(provider *model.Provider) error
}

type providerRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Create(provider *model.Provider) error {
	return r.db.Create(provider).Error
}

func (r *providerRepository) FindByID(id uint) (*model.Provider, error) {
	var provider model.Provider
	if err := r.db.First(&provider, id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByIDWithUser(id uint) (*model.Provider, error) {
	var provider model.Provider
	if err := r.db.Preload("User").First(&provider, id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByUserID(userID uint) (*model.Provider, error) {
	var provider model.Provider
	if err := r.db.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) List(status *model.ApprovalStatus, specialization string, limit, offset int) ([]model.Provider, int64, error) {
	var providers []model.Provider
	var total int64

	query := r.db.Model(&model.Provider{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("rating DESC, total_reviews DESC").
		Offset(offset).
		Limit(limit).
		Find(&providers).Error
	if err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

func (r *providerRepository) Update(provider *model.Provider) error {
	return r.db.Save(provider).Error
}
