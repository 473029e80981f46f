package model

import (
	"time"
)

// RequestStatus is the canonical booking lifecycle status. Statuses are
// referenced by name everywhere, never by numeric code.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// legalTransitions lists the allowed lifecycle edges.
var legalTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusAccepted, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusAccepted: {RequestStatusCompleted, RequestStatusCancelled},
}

// IsValid reports whether s is one of the canonical statuses.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusCompleted,
		RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// IsFinal reports whether no further transitions are allowed from s.
func (s RequestStatus) IsFinal() bool {
	return len(legalTransitions[s]) == 0
}

// CanTransitionTo reports whether the edge s → target is legal.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Request is a customer's booking of a provider's service.
type Request struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CustomerID uint  `gorm:"not null;index" json:"customer_id"`
	Customer   *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	ServiceID uint     `gorm:"not null;index" json:"service_id"`
	Service   *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	Status        RequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ScheduledDate time.Time     `gorm:"not null" json:"scheduled_date"`
	Details       string        `gorm:"type:text" json:"details"`
	AddressLine   string        `gorm:"type:text" json:"address_line"`
	City          string        `json:"city"`

	// Set only on the completed transition; until then the service's
	// list price applies.
	FinalPrice *float64 `json:"final_price,omitempty"`

	Review  *Review  `gorm:"foreignKey:RequestID" json:"review,omitempty"`
	Payment *Payment `gorm:"foreignKey:RequestID" json:"payment,omitempty"`
}

func (Request) TableName() string {
	return "requests"
}
