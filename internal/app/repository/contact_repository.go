package repository

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(message *model.ContactMessage) error
	FindAll(unreadOnly bool, limit, offset int) ([]model.ContactMessage, int64, error)
	FindByID(id uint) (*model.ContactMessage, error)
	MarkAsRead(id uint) error
	Delete(id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(message *model.ContactMessage) error {
	return r.db.Create(message).Error
}

func (r *contactRepository) FindAll(unreadOnly bool, limit, offset int) ([]model.ContactMessage, int64, error) {
	var messages []model.ContactMessage
	var total int64

	query := r.db.Model(&model.ContactMessage{})
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *contactRepository) FindByID(id uint) (*model.ContactMessage, error) {
	var message model.ContactMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactRepository) MarkAsRead(id uint) error {
	return r.db.Model(&model.ContactMessage{}).Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *contactRepository) Delete(id uint) error {
	return r.db.Delete(&model.ContactMessage{}, id).Error
}
