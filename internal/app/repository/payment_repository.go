package repository

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(payment *model.Payment) error
	FindByID(id uint) (*model.Payment, error)
	FindByRequestID(requestID uint) (*model.Payment, error)
	FindByCustomer(customerID uint, limit, offset int) ([]model.Payment, int64, error)
	FindAll(limit, offset int) ([]model.Payment, int64, error)
	Update(payment *model.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) FindByID(id uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Preload("Request").First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByRequestID(requestID uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("request_id = ?", requestID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByCustomer(customerID uint, limit, offset int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	query := r.db.Model(&model.Payment{}).
		Joins("JOIN requests ON requests.id = payments.request_id").
		Where("requests.customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Request").Preload("Request.Service").
		Order("payments.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) FindAll(limit, offset int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	if err := r.db.Model(&model.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Request").Preload("Request.Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}
