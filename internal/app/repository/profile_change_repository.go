package repository

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/gorm"
)

type ProfileChangeRepository interface {
	Create(request *model.ProfileChangeRequest) error
	FindByID(id uint) (*model.ProfileChangeRequest, error)
	FindPending(limit, offset int) ([]model.ProfileChangeRequest, int64, error)
	FindByProvider(providerID uint) ([]model.ProfileChangeRequest, error)
	HasPendingForProvider(providerID uint) (bool, error)
	Update(request *model.ProfileChangeRequest) error
}

type profileChangeRepository struct {
	db *gorm.DB
}

func NewProfileChangeRepository(db *gorm.DB) ProfileChangeRepository {
	return &profileChangeRepository{db: db}
}

func (r *profileChangeRepository) Create(request *model.ProfileChangeRequest) error {
	return r.db.Create(request).Error
}

func (r *profileChangeRepository) FindByID(id uint) (*model.ProfileChangeRequest, error) {
	var request model.ProfileChangeRequest
	err := r.db.Preload("Provider").Preload("Provider.User").First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *profileChangeRepository) FindPending(limit, offset int) ([]model.ProfileChangeRequest, int64, error) {
	var requests []model.ProfileChangeRequest
	var total int64

	query := r.db.Model(&model.ProfileChangeRequest{}).
		Where("status = ?", model.ApprovalStatusPending)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Provider").Preload("Provider.User").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *profileChangeRepository) FindByProvider(providerID uint) ([]model.ProfileChangeRequest, error) {
	var requests []model.ProfileChangeRequest
	err := r.db.Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *profileChangeRepository) HasPendingForProvider(providerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ProfileChangeRequest{}).
		Where("provider_id = ? AND status = ?", providerID, model.ApprovalStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileChangeRepository) Update(request *model.ProfileChangeRequest) error {
	return r.db.Save(request).Error
}
