package service

import (
	"errors"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrContactMessageNotFound = errors.New("contact message not found")

type ContactService interface {
	SubmitMessage(name, email, subject, message string) (*model.ContactMessage, error)
	ListMessages(unreadOnly bool, limit, offset int) ([]model.ContactMessage, int64, error)
	MarkMessageRead(id uint) error
	DeleteMessage(id uint) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) SubmitMessage(name, email, subject, message string) (*model.ContactMessage, error) {
	contactMessage := &model.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}

	if err := s.contactRepo.Create(contactMessage); err != nil {
		logger.Error("Failed to save contact message", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("Contact message received", map[string]interface{}{
		"message_id": contactMessage.ID,
		"email":      email,
	})
	return contactMessage, nil
}

func (s *contactService) ListMessages(unreadOnly bool, limit, offset int) ([]model.ContactMessage, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.contactRepo.FindAll(unreadOnly, limit, offset)
}

func (s *contactService) MarkMessageRead(id uint) error {
	if _, err := s.contactRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactMessageNotFound
		}
		return err
	}
	return s.contactRepo.MarkAsRead(id)
}

func (s *contactService) DeleteMessage(id uint) error {
	if _, err := s.contactRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactMessageNotFound
		}
		return err
	}
	return s.contactRepo.Delete(id)
}
