package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/policy"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrReviewExists      = errors.New("a review already exists for this request")
	ErrReviewNotEligible = errors.New("request is not eligible for review")
	ErrReviewForbidden   = errors.New("no permission to modify this review")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

type ReviewService interface {
	CreateReview(userID, requestID uint, rating int, comment string) (*model.Review, error)
	UpdateReview(userID, reviewID uint, rating int, comment string) (*model.Review, error)
	DeleteReview(userID uint, role model.UserRole, reviewID uint) error
	ListProviderReviews(providerID uint, limit, offset int) ([]model.Review, int64, error)
}

type reviewService struct {
	db                  *gorm.DB
	reviewRepo          *repository.ReviewRepository
	requestRepo         repository.RequestRepository
	notificationService NotificationService
}

func NewReviewService(
	db *gorm.DB,
	reviewRepo *repository.ReviewRepository,
	requestRepo repository.RequestRepository,
	notificationService NotificationService,
) ReviewService {
	return &reviewService{
		db:                  db,
		reviewRepo:          reviewRepo,
		requestRepo:         requestRepo,
		notificationService: notificationService,
	}
}

// recomputeProviderRating rewrites the provider's rating aggregate from
// the live review rows. The single UPDATE with subqueries is atomic on
// both PostgreSQL and SQLite, so no separate row lock is needed.
func recomputeProviderRating(tx *gorm.DB, providerID uint) error {
	return tx.Exec(
		`UPDATE providers
		 SET rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE provider_id = ?),
		     total_reviews = (SELECT COUNT(*) FROM reviews WHERE provider_id = ?),
		     updated_at = ?
		 WHERE id = ?`,
		providerID, providerID, time.Now(), providerID,
	).Error
}

// CreateReview validates eligibility (ownership, completed status, no
// existing review) and inserts the review together with the provider
// aggregate recompute in one transaction.
func (s *reviewService) CreateReview(userID, requestID uint, rating int, comment string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":    userID,
		"request_id": requestID,
		"rating":     rating,
	})

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !policy.CanReviewRequest(userID, request) {
		logger.Warn("Review rejected: request not eligible", map[string]interface{}{
			"user_id":    userID,
			"request_id": requestID,
			"status":     request.Status,
		})
		return nil, ErrReviewNotEligible
	}

	exists, err := s.reviewRepo.ExistsForRequest(requestID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Review rejected: duplicate for request", map[string]interface{}{
			"request_id": requestID,
		})
		return nil, ErrReviewExists
	}

	if request.Service == nil {
		return nil, ErrServiceNotFound
	}
	providerID := request.Service.ProviderID

	review := &model.Review{
		RequestID:  requestID,
		CustomerID: userID,
		ProviderID: providerID,
		Rating:     rating,
		Comment:    comment,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"request_id": requestID,
			})
		}
	}()

	if err := tx.Create(review).Error; err != nil {
		tx.Rollback()
		// The unique index on request_id catches the concurrent duplicate
		logger.Error("Failed to insert review", err, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, err
	}

	if err := recomputeProviderRating(tx, providerID); err != nil {
		tx.Rollback()
		logger.Error("Failed to recompute provider rating", err, map[string]interface{}{
			"provider_id": providerID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review creation", err, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, err
	}

	s.notifyProviderOfReview(request, review)

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"request_id":  requestID,
		"provider_id": providerID,
	})
	return review, nil
}

func (s *reviewService) notifyProviderOfReview(request *model.Request, review *model.Review) {
	if request.Service == nil || request.Service.Provider == nil {
		return
	}

	providerUserID := request.Service.Provider.UserID
	title := "You received a new review"
	content := fmt.Sprintf("A customer rated %q %d/5.", request.Service.Title, review.Rating)
	if err := s.notificationService.Notify(providerUserID, model.NotificationTypeNewReview,
		title, content, fmt.Sprintf("/provider/reviews/%d", review.ID), &request.ID); err != nil {
		logger.Error("Failed to notify provider of new review", err, map[string]interface{}{
			"review_id": review.ID,
		})
	}
}

func (s *reviewService) UpdateReview(userID, reviewID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if !policy.CanEditReview(userID, review) {
		return nil, ErrReviewForbidden
	}

	review.Rating = rating
	review.Comment = comment

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Save(review).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := recomputeProviderRating(tx, review.ProviderID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id": reviewID,
	})
	return review, nil
}

func (s *reviewService) DeleteReview(userID uint, role model.UserRole, reviewID uint) error {
	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if !policy.CanDeleteReview(userID, role, review) {
		return ErrReviewForbidden
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&model.Review{}, reviewID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recomputeProviderRating(tx, review.ProviderID); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":   reviewID,
		"provider_id": review.ProviderID,
	})
	return nil
}

func (s *reviewService) ListProviderReviews(providerID uint, limit, offset int) ([]model.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reviewRepo.GetReviewsByProviderID(providerID, offset, limit)
}
