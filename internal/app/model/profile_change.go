package model

import (
	"time"
)

// ProfileChangeRequest is a provider's request to change moderated profile
// fields. The proposed values are applied to the provider only when an
// admin approves the request.
type ProfileChangeRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProviderID uint      `gorm:"not null;index" json:"provider_id"`
	Provider   *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`

	NewSpecialization string `gorm:"type:varchar(100)" json:"new_specialization"`
	NewBio            string `gorm:"type:text" json:"new_bio"`
	NewCVURL          string `gorm:"type:text" json:"new_cv_url"`

	Status          ApprovalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedBy      *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`
}

func (ProfileChangeRequest) TableName() string {
	return "profile_change_requests"
}
