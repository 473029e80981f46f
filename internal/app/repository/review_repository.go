package repository

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// GetReviewByID returns a single review with its author.
func (r *ReviewRepository) GetReviewByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Customer").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewByRequestID returns the review for a request, if any.
func (r *ReviewRepository) GetReviewByRequestID(requestID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("request_id = ?", requestID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewsByProviderID lists a provider's reviews, newest first.
func (r *ReviewRepository) GetReviewsByProviderID(providerID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("provider_id = ?", providerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ExistsForRequest reports whether a review already references the request.
func (r *ReviewRepository) ExistsForRequest(requestID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Where("request_id = ?", requestID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
