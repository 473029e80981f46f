package model

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records the settlement of a request. One payment per request.
type Payment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RequestID uint     `gorm:"uniqueIndex:idx_payments_request_id;not null" json:"request_id"`
	Request   *Request `gorm:"foreignKey:RequestID" json:"request,omitempty"`

	Amount float64       `gorm:"not null" json:"amount"`
	Status PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaidAt *time.Time    `json:"paid_at,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
