package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"github.com/khadamati/khadamati-backend/pkg/mailer"
	"gorm.io/gorm"
)

var (
	ErrProviderNotFound       = errors.New("provider not found")
	ErrProviderNotApproved    = errors.New("provider is not approved")
	ErrProviderNotPending     = errors.New("provider is not awaiting review")
	ErrNotProviderAccount     = errors.New("account has no provider profile")
	ErrChangeRequestNotFound  = errors.New("profile change request not found")
	ErrChangeRequestFinalized = errors.New("profile change request already reviewed")
	ErrChangeRequestPending   = errors.New("a pending profile change request already exists")
	ErrChangeRequestEmpty     = errors.New("profile change request has no changes")
)

type ProviderService interface {
	GetProvider(id uint, includeUnapproved bool) (*model.Provider, error)
	GetProviderByUserID(userID uint) (*model.Provider, error)
	ListProviders(specialization string, limit, offset int) ([]model.Provider, int64, error)
	UpdateDocuments(userID uint, cvURL, certificateURL string) (*model.Provider, error)

	CreateChangeRequest(userID uint, newSpecialization, newBio, newCVURL string) (*model.ProfileChangeRequest, error)
	ListMyChangeRequests(userID uint) ([]model.ProfileChangeRequest, error)

	// Admin moderation
	ListPendingProviders(limit, offset int) ([]model.Provider, int64, error)
	ApproveProvider(adminID, providerID uint) (*model.Provider, error)
	RejectProvider(adminID, providerID uint, reason string) (*model.Provider, error)
	ListPendingChangeRequests(limit, offset int) ([]model.ProfileChangeRequest, int64, error)
	ApproveChangeRequest(adminID, changeRequestID uint) (*model.ProfileChangeRequest, error)
	RejectChangeRequest(adminID, changeRequestID uint, reason string) (*model.ProfileChangeRequest, error)
}

type providerService struct {
	db                  *gorm.DB
	providerRepo        repository.ProviderRepository
	changeRepo          repository.ProfileChangeRepository
	notificationService NotificationService
	mailer              mailer.Mailer
}

func NewProviderService(
	db *gorm.DB,
	providerRepo repository.ProviderRepository,
	changeRepo repository.ProfileChangeRepository,
	notificationService NotificationService,
	m mailer.Mailer,
) ProviderService {
	return &providerService{
		db:                  db,
		providerRepo:        providerRepo,
		changeRepo:          changeRepo,
		notificationService: notificationService,
		mailer:              m,
	}
}

func (s *providerService) GetProvider(id uint, includeUnapproved bool) (*model.Provider, error) {
	provider, err := s.providerRepo.FindByIDWithUser(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	// Unapproved profiles are only visible to admins and their owner
	if !provider.IsApproved() && !includeUnapproved {
		return nil, ErrProviderNotFound
	}

	return provider, nil
}

func (s *providerService) GetProviderByUserID(userID uint) (*model.Provider, error) {
	provider, err := s.providerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProviderAccount
		}
		return nil, err
	}
	return provider, nil
}

func (s *providerService) ListProviders(specialization string, limit, offset int) ([]model.Provider, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	approved := model.ApprovalStatusApproved
	return s.providerRepo.List(&approved, specialization, limit, offset)
}

// UpdateDocuments lets a provider replace their CV and certificate links
// without admin review. Specialization and bio edits go through a profile
// change request instead.
func (s *providerService) UpdateDocuments(userID uint, cvURL, certificateURL string) (*model.Provider, error) {
	provider, err := s.GetProviderByUserID(userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if cvURL != "" && cvURL != provider.CVURL {
		provider.CVURL = cvURL
		updated = true
	}
	if certificateURL != "" && certificateURL != provider.CertificateURL {
		provider.CertificateURL = certificateURL
		updated = true
	}

	if !updated {
		return provider, nil
	}

	if err := s.providerRepo.Update(provider); err != nil {
		logger.Error("Failed to update provider documents", err, map[string]interface{}{
			"provider_id": provider.ID,
		})
		return nil, err
	}

	logger.Info("Provider documents updated", map[string]interface{}{
		"provider_id": provider.ID,
	})
	return provider, nil
}

func (s *providerService) CreateChangeRequest(userID uint, newSpecialization, newBio, newCVURL string) (*model.ProfileChangeRequest, error) {
	provider, err := s.GetProviderByUserID(userID)
	if err != nil {
		return nil, err
	}

	if newSpecialization == "" && newBio == "" && newCVURL == "" {
		return nil, ErrChangeRequestEmpty
	}

	// One pending request at a time keeps admin review unambiguous
	hasPending, err := s.changeRepo.HasPendingForProvider(provider.ID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, ErrChangeRequestPending
	}

	changeRequest := &model.ProfileChangeRequest{
		ProviderID:        provider.ID,
		NewSpecialization: newSpecialization,
		NewBio:            newBio,
		NewCVURL:          newCVURL,
		Status:            model.ApprovalStatusPending,
	}

	if err := s.changeRepo.Create(changeRequest); err != nil {
		logger.Error("Failed to create profile change request", err, map[string]interface{}{
			"provider_id": provider.ID,
		})
		return nil, err
	}

	logger.Info("Profile change request created", map[string]interface{}{
		"provider_id":       provider.ID,
		"change_request_id": changeRequest.ID,
	})
	return changeRequest, nil
}

func (s *providerService) ListMyChangeRequests(userID uint) ([]model.ProfileChangeRequest, error) {
	provider, err := s.GetProviderByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.changeRepo.FindByProvider(provider.ID)
}

func (s *providerService) ListPendingProviders(limit, offset int) ([]model.Provider, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pending := model.ApprovalStatusPending
	return s.providerRepo.List(&pending, "", limit, offset)
}

func (s *providerService) ApproveProvider(adminID, providerID uint) (*model.Provider, error) {
	return s.reviewProvider(adminID, providerID, model.ApprovalStatusApproved, "")
}

func (s *providerService) RejectProvider(adminID, providerID uint, reason string) (*model.Provider, error) {
	return s.reviewProvider(adminID, providerID, model.ApprovalStatusRejected, reason)
}

func (s *providerService) reviewProvider(adminID, providerID uint, decision model.ApprovalStatus, reason string) (*model.Provider, error) {
	provider, err := s.providerRepo.FindByIDWithUser(providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	if provider.Status != model.ApprovalStatusPending {
		logger.Warn("Provider review rejected: not pending", map[string]interface{}{
			"provider_id": providerID,
			"status":      provider.Status,
		})
		return nil, ErrProviderNotPending
	}

	now := time.Now()
	provider.Status = decision
	provider.ReviewedBy = &adminID
	provider.ReviewedAt = &now
	provider.RejectionReason = reason

	if err := s.providerRepo.Update(provider); err != nil {
		logger.Error("Failed to update provider status", err, map[string]interface{}{
			"provider_id": providerID,
		})
		return nil, err
	}

	s.notifyProviderDecision(provider, decision, reason)

	logger.Info("Provider reviewed", map[string]interface{}{
		"provider_id": providerID,
		"decision":    decision,
		"admin_id":    adminID,
	})
	return provider, nil
}

func (s *providerService) notifyProviderDecision(provider *model.Provider, decision model.ApprovalStatus, reason string) {
	var title, content string
	if decision == model.ApprovalStatusApproved {
		title = "Your provider account has been approved"
		content = "You can now list services and receive booking requests."
	} else {
		title = "Your provider application was not approved"
		content = "Reason: " + reason
	}

	if err := s.notificationService.Notify(provider.UserID, model.NotificationTypeProviderApproval, title, content, "/provider/profile", nil); err != nil {
		logger.Error("Failed to notify provider of review decision", err, map[string]interface{}{
			"provider_id": provider.ID,
		})
	}

	if provider.User != nil {
		body := fmt.Sprintf("<p>Hello %s,</p><p>%s</p>", provider.User.Name, content)
		if err := s.mailer.Send(provider.User.Email, title, body); err != nil {
			logger.Error("Failed to send provider review email", err, map[string]interface{}{
				"provider_id": provider.ID,
			})
		}
	}
}

func (s *providerService) ListPendingChangeRequests(limit, offset int) ([]model.ProfileChangeRequest, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.changeRepo.FindPending(limit, offset)
}

// ApproveChangeRequest applies the proposed profile values and finalizes
// the change request in one transaction.
func (s *providerService) ApproveChangeRequest(adminID, changeRequestID uint) (*model.ProfileChangeRequest, error) {
	changeRequest, err := s.changeRepo.FindByID(changeRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeRequestNotFound
		}
		return nil, err
	}

	if changeRequest.Status != model.ApprovalStatusPending {
		return nil, ErrChangeRequestFinalized
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var provider model.Provider
		if err := tx.First(&provider, changeRequest.ProviderID).Error; err != nil {
			return err
		}

		if changeRequest.NewSpecialization != "" {
			provider.Specialization = changeRequest.NewSpecialization
		}
		if changeRequest.NewBio != "" {
			provider.Bio = changeRequest.NewBio
		}
		if changeRequest.NewCVURL != "" {
			provider.CVURL = changeRequest.NewCVURL
		}
		if err := tx.Save(&provider).Error; err != nil {
			return err
		}

		changeRequest.Status = model.ApprovalStatusApproved
		changeRequest.ReviewedBy = &adminID
		changeRequest.ReviewedAt = &now
		return tx.Save(changeRequest).Error
	})
	if err != nil {
		logger.Error("Failed to approve profile change request", err, map[string]interface{}{
			"change_request_id": changeRequestID,
		})
		return nil, err
	}

	if changeRequest.Provider != nil {
		if err := s.notificationService.Notify(changeRequest.Provider.UserID, model.NotificationTypeChangeRequest,
			"Your profile change was approved",
			"The requested changes to your provider profile are now live.",
			"/provider/profile", nil); err != nil {
			logger.Error("Failed to notify provider of change approval", err, nil)
		}
	}

	logger.Info("Profile change request approved", map[string]interface{}{
		"change_request_id": changeRequestID,
		"admin_id":          adminID,
	})
	return changeRequest, nil
}

func (s *providerService) RejectChangeRequest(adminID, changeRequestID uint, reason string) (*model.ProfileChangeRequest, error) {
	changeRequest, err := s.changeRepo.FindByID(changeRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeRequestNotFound
		}
		return nil, err
	}

	if changeRequest.Status != model.ApprovalStatusPending {
		return nil, ErrChangeRequestFinalized
	}

	now := time.Now()
	changeRequest.Status = model.ApprovalStatusRejected
	changeRequest.ReviewedBy = &adminID
	changeRequest.ReviewedAt = &now
	changeRequest.RejectionReason = reason

	if err := s.changeRepo.Update(changeRequest); err != nil {
		logger.Error("Failed to reject profile change request", err, map[string]interface{}{
			"change_request_id": changeRequestID,
		})
		return nil, err
	}

	if changeRequest.Provider != nil {
		if err := s.notificationService.Notify(changeRequest.Provider.UserID, model.NotificationTypeChangeRequest,
			"Your profile change was rejected",
			"Reason: "+reason,
			"/provider/profile", nil); err != nil {
			logger.Error("Failed to notify provider of change rejection", err, nil)
		}
	}

	logger.Info("Profile change request rejected", map[string]interface{}{
		"change_request_id": changeRequestID,
		"admin_id":          adminID,
	})
	return changeRequest, nil
}
