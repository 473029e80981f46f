package service

import (
	"testing"
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookingLifecycle walks a booking through its full life: a customer
// requests an approved provider's service, the provider accepts and
// completes it at an adjusted price, the customer pays and reviews, and
// the provider's rating aggregate reflects the review.
func TestBookingLifecycle(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	requestRepo := repository.NewRequestRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	providerRepo := repository.NewProviderRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	paymentRepo := repository.NewPaymentRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	notificationService := NewNotificationService(notificationRepo, nil)
	requestService := NewRequestService(testDB, requestRepo, serviceRepo, providerRepo, reviewRepo, notificationService)
	reviewService := NewReviewService(testDB, reviewRepo, requestRepo, notificationService)
	paymentService := NewPaymentService(paymentRepo, requestRepo)

	customer := &model.User{
		Email:    "amal@example.com",
		Password: "hashed",
		Name:     "Amal",
		City:     "Riyadh",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(customer).Error)

	providerUser := &model.User{
		Email:    "badr@example.com",
		Password: "hashed",
		Name:     "Badr",
		City:     "Riyadh",
		Role:     model.RoleProvider,
	}
	require.NoError(t, testDB.Create(providerUser).Error)
	provider := &model.Provider{
		UserID:         providerUser.ID,
		Specialization: "Plumbing",
		Status:         model.ApprovalStatusApproved,
	}
	require.NoError(t, testDB.Create(provider).Error)

	category := &model.Category{Name: "Plumbing"}
	require.NoError(t, testDB.Create(category).Error)
	listing := &model.Service{
		ProviderID: provider.ID,
		CategoryID: category.ID,
		Title:      "Water Heater Repair",
		Price:      100,
		City:       "Riyadh",
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(listing).Error)

	// Customer books the service
	request, err := requestService.CreateRequest(customer.ID, listing.ID,
		time.Now().Add(72*time.Hour), "Heater leaks from the bottom", "5 Palm St", "Riyadh")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, request.Status)

	// Provider accepts, then completes with an adjusted price
	_, err = requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusAccepted, nil)
	require.NoError(t, err)

	finalPrice := 120.0
	completed, err := requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusCompleted, &finalPrice)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, completed.Status)

	// Payment picks up the final price
	payment, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 120.0, payment.Amount)

	paid, err := paymentService.UpdatePaymentStatus(customer.ID, model.RoleCustomer, payment.ID, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, paid.PaidAt)

	// Customer reviews the completed work
	review, err := reviewService.CreateReview(customer.ID, request.ID, 5, "Fast and tidy")
	require.NoError(t, err)
	assert.Equal(t, provider.ID, review.ProviderID)

	var storedProvider model.Provider
	require.NoError(t, testDB.First(&storedProvider, provider.ID).Error)
	assert.Equal(t, 5.0, storedProvider.Rating)
	assert.Equal(t, 1, storedProvider.TotalReviews)

	// A second review for the same booking is refused
	_, err = reviewService.CreateReview(customer.ID, request.ID, 4, "changed my mind")
	assert.ErrorIs(t, err, ErrReviewExists)

	// The reviewed booking can no longer be deleted
	err = requestService.DeleteRequest(customer.ID, model.RoleCustomer, request.ID)
	assert.ErrorIs(t, err, ErrRequestHasReview)

	// Both parties accumulated notifications along the way
	var customerNotifications, providerNotifications int64
	testDB.Model(&model.Notification{}).Where("user_id = ?", customer.ID).Count(&customerNotifications)
	testDB.Model(&model.Notification{}).Where("user_id = ?", providerUser.ID).Count(&providerNotifications)
	assert.GreaterOrEqual(t, customerNotifications, int64(2))
	assert.GreaterOrEqual(t, providerNotifications, int64(2))
}
