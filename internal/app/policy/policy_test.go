package policy

import (
	"testing"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func TestCanCreateService(t *testing.T) {
	approved := &model.Provider{UserID: 10, Status: model.ApprovalStatusApproved}
	pending := &model.Provider{UserID: 10, Status: model.ApprovalStatusPending}
	rejected := &model.Provider{UserID: 10, Status: model.ApprovalStatusRejected}

	tests := []struct {
		name     string
		userID   uint
		provider *model.Provider
		want     bool
	}{
		{"Approved owner", 10, approved, true},
		{"Pending owner", 10, pending, false},
		{"Rejected owner", 10, rejected, false},
		{"Approved but not owner", 11, approved, false},
		{"No provider profile", 10, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreateService(tt.userID, tt.provider))
		})
	}
}

func TestCanTransitionRequest(t *testing.T) {
	const customerID, providerUserID, adminID = uint(1), uint(2), uint(3)

	pending := &model.Request{CustomerID: customerID, Status: model.RequestStatusPending}
	accepted := &model.Request{CustomerID: customerID, Status: model.RequestStatusAccepted}
	completed := &model.Request{CustomerID: customerID, Status: model.RequestStatusCompleted}

	tests := []struct {
		name    string
		userID  uint
		role    model.UserRole
		request *model.Request
		target  model.RequestStatus
		want    bool
	}{
		{"Provider accepts pending", providerUserID, model.RoleProvider, pending, model.RequestStatusAccepted, true},
		{"Provider rejects pending", providerUserID, model.RoleProvider, pending, model.RequestStatusRejected, true},
		{"Provider completes accepted", providerUserID, model.RoleProvider, accepted, model.RequestStatusCompleted, true},
		{"Provider cannot complete pending", providerUserID, model.RoleProvider, pending, model.RequestStatusCompleted, false},
		{"Customer cancels pending", customerID, model.RoleCustomer, pending, model.RequestStatusCancelled, true},
		{"Customer cancels accepted", customerID, model.RoleCustomer, accepted, model.RequestStatusCancelled, true},
		{"Customer cannot accept own request", customerID, model.RoleCustomer, pending, model.RequestStatusAccepted, false},
		{"Foreign customer cannot cancel", uint(99), model.RoleCustomer, pending, model.RequestStatusCancelled, false},
		{"Admin performs any legal transition", adminID, model.RoleAdmin, pending, model.RequestStatusRejected, true},
		{"Admin bound by legality", adminID, model.RoleAdmin, completed, model.RequestStatusAccepted, false},
		{"No transition out of completed", providerUserID, model.RoleProvider, completed, model.RequestStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransitionRequest(tt.userID, tt.role, tt.request, providerUserID, tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanReviewRequest(t *testing.T) {
	completed := &model.Request{CustomerID: 1, Status: model.RequestStatusCompleted}
	pending := &model.Request{CustomerID: 1, Status: model.RequestStatusPending}

	assert.True(t, CanReviewRequest(1, completed))
	assert.False(t, CanReviewRequest(2, completed))
	assert.False(t, CanReviewRequest(1, pending))
}

func TestCanViewRequest(t *testing.T) {
	request := &model.Request{CustomerID: 1}

	assert.True(t, CanViewRequest(1, model.RoleCustomer, request, 2))
	assert.True(t, CanViewRequest(2, model.RoleProvider, request, 2))
	assert.True(t, CanViewRequest(99, model.RoleAdmin, request, 2))
	assert.False(t, CanViewRequest(3, model.RoleCustomer, request, 2))
}

func TestCanDeleteReview(t *testing.T) {
	review := &model.Review{CustomerID: 5}

	assert.True(t, CanDeleteReview(5, model.RoleCustomer, review))
	assert.True(t, CanDeleteReview(1, model.RoleAdmin, review))
	assert.False(t, CanDeleteReview(6, model.RoleCustomer, review))
}
