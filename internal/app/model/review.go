package model

import (
	"time"
)

// Review rates a completed request. At most one review exists per request,
// enforced by the unique index on RequestID. ProviderID is denormalized so
// the rating aggregate can be computed without joins.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RequestID uint     `gorm:"uniqueIndex:idx_reviews_request_id;not null" json:"request_id"`
	Request   *Request `gorm:"foreignKey:RequestID" json:"request,omitempty"`

	CustomerID uint  `gorm:"not null;index" json:"customer_id"`
	Customer   *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	ProviderID uint      `gorm:"not null;index" json:"provider_id"`
	Provider   *Provider `gorm:"foreignKey:ProviderID" json:"-"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`
}

func (Review) TableName() string {
	return "reviews"
}
