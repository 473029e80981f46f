package service

import (
	"testing"
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRequestServiceTest(t *testing.T) (RequestService, *gorm.DB, *model.User, *model.User, *model.Service) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	requestRepo := repository.NewRequestRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	providerRepo := repository.NewProviderRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, nil)

	requestService := NewRequestService(testDB, requestRepo, serviceRepo, providerRepo, reviewRepo, notificationService)

	customer := &model.User{
		Email:    "customer@example.com",
		Password: "hashed",
		Name:     "Test Customer",
		City:     "Riyadh",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(customer).Error)

	providerUser := &model.User{
		Email:    "provider@example.com",
		Password: "hashed",
		Name:     "Test Provider",
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
		ProviderID:  provider.ID,
		CategoryID:  category.ID,
		Title:       "Pipe Repair",
		Description: "Fixing leaky pipes",
		Price:       100,
		City:        "Riyadh",
		IsActive:    true,
	}
	require.NoError(t, testDB.Create(listing).Error)

	return requestService, testDB, customer, providerUser, listing
}

func TestRequestService_CreateRequest(t *testing.T) {
	requestService, testDB, customer, providerUser, listing := setupRequestServiceTest(t)

	scheduled := time.Now().Add(48 * time.Hour)
	request, err := requestService.CreateRequest(customer.ID, listing.ID, scheduled, "Kitchen sink is leaking", "12 Main St", "Riyadh")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, request.Status)
	assert.Equal(t, customer.ID, request.CustomerID)
	assert.Nil(t, request.FinalPrice)

	// Provider gets notified about the new booking
	var notification model.Notification
	err = testDB.Where("user_id = ? AND type = ?", providerUser.ID, model.NotificationTypeNewRequest).First(&notification).Error
	require.NoError(t, err)
	assert.Equal(t, request.ID, *notification.RelatedRequestID)
}

func TestRequestService_CreateRequest_InactiveService(t *testing.T) {
	requestService, testDB, customer, _, listing := setupRequestServiceTest(t)

	require.NoError(t, testDB.Model(listing).Update("is_active", false).Error)

	_, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestRequestService_CreateRequest_UnapprovedProvider(t *testing.T) {
	requestService, testDB, customer, _, listing := setupRequestServiceTest(t)

	require.NoError(t, testDB.Model(&model.Provider{}).
		Where("id = ?", listing.ProviderID).
		Update("status", model.ApprovalStatusPending).Error)

	_, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	assert.ErrorIs(t, err, ErrProviderNotApproved)
}

func TestRequestService_CreateRequest_OwnService(t *testing.T) {
	requestService, _, _, providerUser, listing := setupRequestServiceTest(t)

	_, err := requestService.CreateRequest(providerUser.ID, listing.ID, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	assert.ErrorIs(t, err, ErrOwnServiceRequest)
}

func TestRequestService_CreateRequest_ServiceNotFound(t *testing.T) {
	requestService, _, customer, _, _ := setupRequestServiceTest(t)

	_, err := requestService.CreateRequest(customer.ID, 9999, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRequestService_UpdateStatus_ProviderAccepts(t *testing.T) {
	requestService, testDB, customer, providerUser, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	updated, err := requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusAccepted, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, updated.Status)

	// Customer gets a status notification
	var notification model.Notification
	err = testDB.Where("user_id = ? AND type = ?", customer.ID, model.NotificationTypeRequestStatus).First(&notification).Error
	assert.NoError(t, err)
}

func TestRequestService_UpdateStatus_IllegalTransition(t *testing.T) {
	requestService, _, customer, providerUser, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	// Cannot complete a request that was never accepted
	_, err = requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusCompleted, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRequestService_UpdateStatus_CustomerCannotAccept(t *testing.T) {
	requestService, _, customer, _, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	_, err = requestService.UpdateStatus(customer.ID, model.RoleCustomer, request.ID, model.RequestStatusAccepted, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRequestService_UpdateStatus_CustomerCancels(t *testing.T) {
	requestService, testDB, customer, providerUser, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	updated, err := requestService.UpdateStatus(customer.ID, model.RoleCustomer, request.ID, model.RequestStatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCancelled, updated.Status)

	// Provider is informed of the cancellation
	var notification model.Notification
	err = testDB.Where("user_id = ? AND type = ?", providerUser.ID, model.NotificationTypeRequestCancelled).First(&notification).Error
	assert.NoError(t, err)
}

func TestRequestService_UpdateStatus_CompleteWithFinalPrice(t *testing.T) {
	requestService, testDB, customer, providerUser, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)
	_, err = requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusAccepted, nil)
	require.NoError(t, err)

	finalPrice := 120.0
	updated, err := requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusCompleted, &finalPrice)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, updated.Status)
	require.NotNil(t, updated.FinalPrice)
	assert.Equal(t, 120.0, *updated.FinalPrice)

	var stored model.Request
	require.NoError(t, testDB.First(&stored, request.ID).Error)
	require.NotNil(t, stored.FinalPrice)
	assert.Equal(t, 120.0, *stored.FinalPrice)
}

func TestRequestService_UpdateStatus_FinalPriceOnlyOnComplete(t *testing.T) {
	requestService, _, customer, providerUser, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	finalPrice := 120.0
	_, err = requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatusAccepted, &finalPrice)
	assert.ErrorIs(t, err, ErrFinalPriceNotAllowed)
}

func TestRequestService_UpdateStatus_UnknownStatus(t *testing.T) {
	requestService, _, customer, providerUser, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	_, err = requestService.UpdateStatus(providerUser.ID, model.RoleProvider, request.ID, model.RequestStatus("shipped"), nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRequestService_GetRequest_ForbiddenForStranger(t *testing.T) {
	requestService, testDB, customer, _, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(48*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	stranger := &model.User{
		Email:    "stranger@example.com",
		Password: "hashed",
		Name:     "Stranger",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(stranger).Error)

	_, err = requestService.GetRequest(stranger.ID, model.RoleCustomer, request.ID)
	assert.ErrorIs(t, err, ErrRequestForbidden)

	// Admins can always view
	got, err := requestService.GetRequest(stranger.ID, model.RoleAdmin, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)
}

func TestRequestService_ListCustomerRequests(t *testing.T) {
	requestService, _, customer, _, listing := setupRequestServiceTest(t)

	for i := 0; i < 3; i++ {
		_, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(time.Duration(i+1)*24*time.Hour), "", "", "Riyadh")
		require.NoError(t, err)
	}

	requests, total, err := requestService.ListCustomerRequests(customer.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, requests, 2)
}

func TestRequestService_ListProviderRequests(t *testing.T) {
	requestService, _, customer, providerUser, listing := setupRequestServiceTest(t)

	_, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	requests, total, err := requestService.ListProviderRequests(providerUser.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, requests, 1)

	// A plain customer account has no provider inbox
	_, _, err = requestService.ListProviderRequests(customer.ID, 20, 0)
	assert.ErrorIs(t, err, ErrNotProviderAccount)
}

func TestRequestService_DeleteRequest(t *testing.T) {
	requestService, testDB, customer, _, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	err = requestService.DeleteRequest(customer.ID, model.RoleCustomer, request.ID)
	require.NoError(t, err)

	var count int64
	testDB.Model(&model.Request{}).Where("id = ?", request.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Dependent notifications go with it
	testDB.Model(&model.Notification{}).Where("related_request_id = ?", request.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRequestService_DeleteRequest_BlockedByReview(t *testing.T) {
	requestService, testDB, customer, _, listing := setupRequestServiceTest(t)

	request, err := requestService.CreateRequest(customer.ID, listing.ID, time.Now().Add(24*time.Hour), "", "", "Riyadh")
	require.NoError(t, err)

	review := &model.Review{
		RequestID:  request.ID,
		CustomerID: customer.ID,
		ProviderID: listing.ProviderID,
		Rating:     4,
	}
	require.NoError(t, testDB.Create(review).Error)

	err = requestService.DeleteRequest(customer.ID, model.RoleCustomer, request.ID)
	assert.ErrorIs(t, err, ErrRequestHasReview)
}

func TestRequestService_ExpireStaleRequests(t *testing.T) {
	requestService, testDB, customer, _, listing := setupRequestServiceTest(t)

	stale := &model.Request{
		CustomerID:    customer.ID,
		ServiceID:     listing.ID,
		Status:        model.RequestStatusPending,
		ScheduledDate: time.Now().Add(-96 * time.Hour),
		City:          "Riyadh",
	}
	require.NoError(t, testDB.Create(stale).Error)

	fresh := &model.Request{
		CustomerID:    customer.ID,
		ServiceID:     listing.ID,
		Status:        model.RequestStatusPending,
		ScheduledDate: time.Now().Add(24 * time.Hour),
		City:          "Riyadh",
	}
	require.NoError(t, testDB.Create(fresh).Error)

	cancelled, err := requestService.ExpireStaleRequests(48 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	var stored model.Request
	require.NoError(t, testDB.First(&stored, stale.ID).Error)
	assert.Equal(t, model.RequestStatusCancelled, stored.Status)

	stored = model.Request{}
	require.NoError(t, testDB.First(&stored, fresh.ID).Error)
	assert.Equal(t, model.RequestStatusPending, stored.Status)

	// Customer is told their booking expired
	var notification model.Notification
	err = testDB.Where("user_id = ? AND type = ?", customer.ID, model.NotificationTypeRequestCancelled).First(&notification).Error
	assert.NoError(t, err)
}
