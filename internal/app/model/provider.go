package model

import (
	"time"

	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// Provider is the service-provider profile attached to a user account.
// Rating and TotalReviews are derived from reviews and never written directly.
type Provider struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`

	Specialization string `gorm:"type:varchar(100);index" json:"specialization"`
	Bio            string `gorm:"type:text" json:"bio"`
	CVURL          string `gorm:"type:text" json:"cv_url"`
	CertificateURL string `gorm:"type:text" json:"certificate_url"`

	// Admin approval gate
	Status          ApprovalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedBy      *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Derived rating aggregate
	Rating       float64 `gorm:"default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`

	Services []Service `gorm:"foreignKey:ProviderID" json:"services,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}

// IsApproved reports whether the provider has passed admin review.
func (p *Provider) IsApproved() bool {
	return p.Status == ApprovalStatusApproved
}
