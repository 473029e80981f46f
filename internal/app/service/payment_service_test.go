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

func setupPaymentServiceTest(t *testing.T) (PaymentService, *gorm.DB, *model.User, *model.Request) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	paymentRepo := repository.NewPaymentRepository(testDB)
	requestRepo := repository.NewRequestRepository(testDB)

	paymentService := NewPaymentService(paymentRepo, requestRepo)

	customer := &model.User{
		Email:    "customer@example.com",
		Password: "hashed",
		Name:     "Test Customer",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(customer).Error)

	providerUser := &model.User{
		Email:    "provider@example.com",
		Password: "hashed",
		Name:     "Test Provider",
		Role:     model.RoleProvider,
	}
	require.NoError(t, testDB.Create(providerUser).Error)

	provider := &model.Provider{
		UserID: providerUser.ID,
		Status: model.ApprovalStatusApproved,
	}
	require.NoError(t, testDB.Create(provider).Error)

	category := &model.Category{Name: "Moving"}
	require.NoError(t, testDB.Create(category).Error)

	listing := &model.Service{
		ProviderID: provider.ID,
		CategoryID: category.ID,
		Title:      "Furniture Moving",
		Price:      100,
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(listing).Error)

	request := &model.Request{
		CustomerID:    customer.ID,
		ServiceID:     listing.ID,
		Status:        model.RequestStatusCompleted,
		ScheduledDate: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, testDB.Create(request).Error)

	return paymentService, testDB, customer, request
}

func TestPaymentService_CreatePayment_ExplicitAmount(t *testing.T) {
	paymentService, testDB, customer, request := setupPaymentServiceTest(t)

	amount := 150.0
	payment, err := paymentService.CreatePayment(customer.ID, request.ID, &amount)
	require.NoError(t, err)
	assert.Equal(t, 150.0, payment.Amount)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaidAt)

	var stored model.Payment
	require.NoError(t, testDB.Where("request_id = ?", request.ID).First(&stored).Error)
	assert.Equal(t, 150.0, stored.Amount)
}

func TestPaymentService_CreatePayment_DefaultsToFinalPrice(t *testing.T) {
	paymentService, testDB, customer, request := setupPaymentServiceTest(t)

	require.NoError(t, testDB.Model(request).Update("final_price", 120.0).Error)

	payment, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 120.0, payment.Amount)
}

func TestPaymentService_CreatePayment_FallsBackToListPrice(t *testing.T) {
	paymentService, _, customer, request := setupPaymentServiceTest(t)

	// No explicit amount and no final price on the request
	payment, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, payment.Amount)
}

func TestPaymentService_CreatePayment_Duplicate(t *testing.T) {
	paymentService, _, customer, request := setupPaymentServiceTest(t)

	_, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)

	_, err = paymentService.CreatePayment(customer.ID, request.ID, nil)
	assert.ErrorIs(t, err, ErrPaymentExists)
}

func TestPaymentService_CreatePayment_NotOwnRequest(t *testing.T) {
	paymentService, testDB, _, request := setupPaymentServiceTest(t)

	other := &model.User{
		Email:    "other@example.com",
		Password: "hashed",
		Name:     "Other",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(other).Error)

	_, err := paymentService.CreatePayment(other.ID, request.ID, nil)
	assert.ErrorIs(t, err, ErrPaymentForbidden)
}

func TestPaymentService_CreatePayment_RequestNotFound(t *testing.T) {
	paymentService, _, customer, _ := setupPaymentServiceTest(t)

	_, err := paymentService.CreatePayment(customer.ID, 9999, nil)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestPaymentService_UpdatePaymentStatus(t *testing.T) {
	paymentService, testDB, customer, request := setupPaymentServiceTest(t)

	payment, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)

	updated, err := paymentService.UpdatePaymentStatus(customer.ID, model.RoleCustomer, payment.ID, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, updated.Status)
	assert.NotNil(t, updated.PaidAt)

	var stored model.Payment
	require.NoError(t, testDB.First(&stored, payment.ID).Error)
	assert.Equal(t, model.PaymentStatusPaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

func TestPaymentService_UpdatePaymentStatus_UnknownStatus(t *testing.T) {
	paymentService, _, customer, request := setupPaymentServiceTest(t)

	payment, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)

	_, err = paymentService.UpdatePaymentStatus(customer.ID, model.RoleCustomer, payment.ID, model.PaymentStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestPaymentService_GetPayment_Permissions(t *testing.T) {
	paymentService, testDB, customer, request := setupPaymentServiceTest(t)

	payment, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)

	other := &model.User{
		Email:    "other@example.com",
		Password: "hashed",
		Name:     "Other",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(other).Error)

	_, err = paymentService.GetPayment(other.ID, model.RoleCustomer, payment.ID)
	assert.ErrorIs(t, err, ErrPaymentForbidden)

	got, err := paymentService.GetPayment(other.ID, model.RoleAdmin, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	got, err = paymentService.GetPayment(customer.ID, model.RoleCustomer, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)
}

func TestPaymentService_ListCustomerPayments(t *testing.T) {
	paymentService, _, customer, request := setupPaymentServiceTest(t)

	_, err := paymentService.CreatePayment(customer.ID, request.ID, nil)
	require.NoError(t, err)

	payments, total, err := paymentService.ListCustomerPayments(customer.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, payments, 1)

	payments, total, err = paymentService.ListAllPayments(20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, payments, 1)
}
