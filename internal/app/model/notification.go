package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeNewRequest       NotificationType = "new_request"
	NotificationTypeRequestStatus    NotificationType = "request_status"
	NotificationTypeRequestCancelled NotificationType = "request_cancelled"
	NotificationTypeNewReview        NotificationType = "new_review"
	NotificationTypeProviderApproval NotificationType = "provider_approval"
	NotificationTypeChangeRequest    NotificationType = "change_request"
)

type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	RelatedRequestID *uint `gorm:"index" json:"related_request_id,omitempty"`
	RelatedServiceID *uint `gorm:"index" json:"related_service_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSettings holds per-user notification preferences.
type NotificationSettings struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	EmailNotification   bool           `gorm:"default:true" json:"email_notification"`
	RequestNotification bool           `gorm:"default:true" json:"request_notification"`
	ReviewNotification  bool           `gorm:"default:true" json:"review_notification"`
	PreferredCities     pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"preferred_cities"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}
