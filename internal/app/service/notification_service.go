package service

import (
	"errors"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/websocket"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrNotificationForbidden = errors.New("notification belongs to another user")
)

// NotificationSettingsInput carries a partial settings update; nil fields
// are left unchanged.
type NotificationSettingsInput struct {
	EmailNotification   *bool
	RequestNotification *bool
	ReviewNotification  *bool
	PreferredCities     []string
}

type NotificationService interface {
	Notify(userID uint, notifType model.NotificationType, title, content, link string, relatedRequestID *uint) error
	List(userID uint, notifType *model.NotificationType, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
	MarkAsRead(userID, notificationID uint) error
	MarkAllAsRead(userID uint) error
	Delete(userID, notificationID uint) error
	GetSettings(userID uint) (*model.NotificationSettings, error)
	UpdateSettings(userID uint, input NotificationSettingsInput) (*model.NotificationSettings, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	hub              *websocket.Hub
}

// NewNotificationService creates the notification service. hub may be nil
// when realtime push is not wired (tests, seed command).
func NewNotificationService(notificationRepo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Notify persists a notification and pushes it to the user's open
// websocket sessions.
func (s *notificationService) Notify(userID uint, notifType model.NotificationType, title, content, link string, relatedRequestID *uint) error {
	notification := &model.Notification{
		UserID:           userID,
		Type:             notifType,
		Title:            title,
		Content:          content,
		Link:             link,
		RelatedRequestID: relatedRequestID,
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": userID,
			"type":    notifType,
		})
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, notification)
	}

	logger.Debug("Notification created", map[string]interface{}{
		"user_id":         userID,
		"notification_id": notification.ID,
		"type":            notifType,
	})
	return nil
}

func (s *notificationService) List(userID uint, notifType *model.NotificationType, isRead *bool, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.GetNotifications(userID, notifType, isRead, limit, offset)
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

func (s *notificationService) MarkAsRead(userID, notificationID uint) error {
	notification, err := s.notificationRepo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotificationForbidden
	}

	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) Delete(userID, notificationID uint) error {
	notification, err := s.notificationRepo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotificationForbidden
	}

	return s.notificationRepo.DeleteNotification(notificationID)
}

// GetSettings returns the user's settings, creating the default row on
// first access.
func (s *notificationService) GetSettings(userID uint) (*model.NotificationSettings, error) {
	settings, err := s.notificationRepo.GetNotificationSettings(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = &model.NotificationSettings{
		UserID:              userID,
		EmailNotification:   true,
		RequestNotification: true,
		ReviewNotification:  true,
		PreferredCities:     pq.StringArray{},
	}
	if err := s.notificationRepo.CreateNotificationSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *notificationService) UpdateSettings(userID uint, input NotificationSettingsInput) (*model.NotificationSettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	if input.EmailNotification != nil {
		settings.EmailNotification = *input.EmailNotification
	}
	if input.RequestNotification != nil {
		settings.RequestNotification = *input.RequestNotification
	}
	if input.ReviewNotification != nil {
		settings.ReviewNotification = *input.ReviewNotification
	}
	if input.PreferredCities != nil {
		settings.PreferredCities = pq.StringArray(input.PreferredCities)
	}

	if err := s.notificationRepo.UpdateNotificationSettings(settings); err != nil {
		return nil, err
	}

	logger.Info("Notification settings updated", map[string]interface{}{
		"user_id": userID,
	})
	return settings, nil
}
