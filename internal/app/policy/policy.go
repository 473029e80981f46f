// Package policy centralizes authorization decisions. Controllers and
// services ask these capability functions instead of repeating inline
// role and ownership comparisons.
package policy

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
)

func IsAdmin(role model.UserRole) bool {
	return role == model.RoleAdmin
}

// CanCreateService allows only an approved provider to list services.
func CanCreateService(userID uint, provider *model.Provider) bool {
	if provider == nil {
		return false
	}
	return provider.UserID == userID && provider.IsApproved()
}

// CanManageService allows the owning approved provider or an admin to
// update or delete a service.
func CanManageService(userID uint, role model.UserRole, provider *model.Provider) bool {
	if IsAdmin(role) {
		return true
	}
	return CanCreateService(userID, provider)
}

// CanViewRequest allows the customer who created the request, the provider
// owning the requested service, or an admin.
func CanViewRequest(userID uint, role model.UserRole, request *model.Request, providerUserID uint) bool {
	if IsAdmin(role) {
		return true
	}
	return request.CustomerID == userID || providerUserID == userID
}

// CanTransitionRequest checks both the lifecycle edge and who may drive it:
// the provider accepts, rejects and completes; the customer cancels; an
// admin may perform any legal transition.
func CanTransitionRequest(userID uint, role model.UserRole, request *model.Request, providerUserID uint, target model.RequestStatus) bool {
	if !request.Status.CanTransitionTo(target) {
		return false
	}
	if IsAdmin(role) {
		return true
	}

	switch target {
	case model.RequestStatusAccepted, model.RequestStatusRejected, model.RequestStatusCompleted:
		return providerUserID == userID
	case model.RequestStatusCancelled:
		return request.CustomerID == userID
	}
	return false
}

// CanDeleteRequest allows the owning customer or an admin.
func CanDeleteRequest(userID uint, role model.UserRole, request *model.Request) bool {
	if IsAdmin(role) {
		return true
	}
	return request.CustomerID == userID
}

// CanReviewRequest allows the owning customer to review a completed request.
// Review uniqueness is checked separately against the database.
func CanReviewRequest(userID uint, request *model.Request) bool {
	return request.CustomerID == userID && request.Status == model.RequestStatusCompleted
}

// CanEditReview allows the review's author.
func CanEditReview(userID uint, review *model.Review) bool {
	return review.CustomerID == userID
}

// CanDeleteReview allows the author or an admin.
func CanDeleteReview(userID uint, role model.UserRole, review *model.Review) bool {
	if IsAdmin(role) {
		return true
	}
	return review.CustomerID == userID
}

// CanPayRequest allows the owning customer to record a payment.
func CanPayRequest(userID uint, request *model.Request) bool {
	return request.CustomerID == userID
}

// CanModerate gates the admin surfaces: provider approval, contact
// messages and profile-change review.
func CanModerate(role model.UserRole) bool {
	return IsAdmin(role)
}
