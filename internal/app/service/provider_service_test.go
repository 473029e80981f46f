package service

import (
	"testing"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/db"
	"github.com/khadamati/khadamati-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProviderServiceTest(t *testing.T) (ProviderService, *gorm.DB, *model.User, *model.Provider) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	providerRepo := repository.NewProviderRepository(testDB)
	changeRepo := repository.NewProfileChangeRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, nil)

	providerService := NewProviderService(testDB, providerRepo, changeRepo, notificationService, mailer.NoopMailer{})

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
		Specialization: "Carpentry",
		Bio:            "Custom furniture",
		Status:         model.ApprovalStatusPending,
	}
	require.NoError(t, testDB.Create(provider).Error)

	return providerService, testDB, providerUser, provider
}

func TestProviderService_ApproveProvider(t *testing.T) {
	providerService, testDB, providerUser, provider := setupProviderServiceTest(t)

	const adminID = uint(99)
	approved, err := providerService.ApproveProvider(adminID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, adminID, *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	var stored model.Provider
	require.NoError(t, testDB.First(&stored, provider.ID).Error)
	assert.Equal(t, model.ApprovalStatusApproved, stored.Status)

	// Provider hears about the decision
	var count int64
	testDB.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", providerUser.ID, model.NotificationTypeProviderApproval).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProviderService_RejectProvider(t *testing.T) {
	providerService, testDB, _, provider := setupProviderServiceTest(t)

	rejected, err := providerService.RejectProvider(99, provider.ID, "Incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusRejected, rejected.Status)
	assert.Equal(t, "Incomplete documents", rejected.RejectionReason)

	var stored model.Provider
	require.NoError(t, testDB.First(&stored, provider.ID).Error)
	assert.Equal(t, model.ApprovalStatusRejected, stored.Status)
}

func TestProviderService_ApproveProvider_NotPending(t *testing.T) {
	providerService, _, _, provider := setupProviderServiceTest(t)

	_, err := providerService.ApproveProvider(99, provider.ID)
	require.NoError(t, err)

	// A decided application cannot be reviewed again
	_, err = providerService.ApproveProvider(99, provider.ID)
	assert.ErrorIs(t, err, ErrProviderNotPending)

	_, err = providerService.RejectProvider(99, provider.ID, "too late")
	assert.ErrorIs(t, err, ErrProviderNotPending)
}

func TestProviderService_ApproveProvider_NotFound(t *testing.T) {
	providerService, _, _, _ := setupProviderServiceTest(t)

	_, err := providerService.ApproveProvider(99, 9999)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestProviderService_GetProvider_HidesUnapproved(t *testing.T) {
	providerService, _, _, provider := setupProviderServiceTest(t)

	// Public lookup hides pending profiles
	_, err := providerService.GetProvider(provider.ID, false)
	assert.ErrorIs(t, err, ErrProviderNotFound)

	// Admin lookup sees everything
	got, err := providerService.GetProvider(provider.ID, true)
	require.NoError(t, err)
	assert.Equal(t, provider.ID, got.ID)

	_, err = providerService.ApproveProvider(99, provider.ID)
	require.NoError(t, err)

	got, err = providerService.GetProvider(provider.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusApproved, got.Status)
}

func TestProviderService_ListProviders_OnlyApproved(t *testing.T) {
	providerService, testDB, _, provider := setupProviderServiceTest(t)

	otherUser := &model.User{
		Email:    "approved@example.com",
		Password: "hashed",
		Name:     "Approved Provider",
		Role:     model.RoleProvider,
	}
	require.NoError(t, testDB.Create(otherUser).Error)
	approved := &model.Provider{
		UserID:         otherUser.ID,
		Specialization: "Plumbing",
		Status:         model.ApprovalStatusApproved,
	}
	require.NoError(t, testDB.Create(approved).Error)

	providers, total, err := providerService.ListProviders("", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, providers, 1)
	assert.Equal(t, approved.ID, providers[0].ID)
	assert.NotEqual(t, provider.ID, providers[0].ID)

	// Specialization filter
	_, total, err = providerService.ListProviders("Electrical", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestProviderService_UpdateDocuments(t *testing.T) {
	providerService, testDB, providerUser, provider := setupProviderServiceTest(t)

	updated, err := providerService.UpdateDocuments(providerUser.ID, "https://cdn.example.com/cv.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cv.pdf", updated.CVURL)

	var stored model.Provider
	require.NoError(t, testDB.First(&stored, provider.ID).Error)
	assert.Equal(t, "https://cdn.example.com/cv.pdf", stored.CVURL)
	assert.Empty(t, stored.CertificateURL)
}

func TestProviderService_CreateChangeRequest(t *testing.T) {
	providerService, testDB, providerUser, provider := setupProviderServiceTest(t)

	changeRequest, err := providerService.CreateChangeRequest(providerUser.ID, "Joinery", "New bio", "")
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusPending, changeRequest.Status)
	assert.Equal(t, provider.ID, changeRequest.ProviderID)

	// Only one pending request at a time
	_, err = providerService.CreateChangeRequest(providerUser.ID, "Another", "", "")
	assert.ErrorIs(t, err, ErrChangeRequestPending)

	// Provider profile is untouched until an admin approves
	var stored model.Provider
	require.NoError(t, testDB.First(&stored, provider.ID).Error)
	assert.Equal(t, "Carpentry", stored.Specialization)
}

func TestProviderService_CreateChangeRequest_Empty(t *testing.T) {
	providerService, _, providerUser, _ := setupProviderServiceTest(t)

	_, err := providerService.CreateChangeRequest(providerUser.ID, "", "", "")
	assert.ErrorIs(t, err, ErrChangeRequestEmpty)
}

func TestProviderService_ApproveChangeRequest_AppliesChanges(t *testing.T) {
	providerService, testDB, providerUser, provider := setupProviderServiceTest(t)

	changeRequest, err := providerService.CreateChangeRequest(providerUser.ID, "Joinery", "", "https://cdn.example.com/new-cv.pdf")
	require.NoError(t, err)

	approved, err := providerService.ApproveChangeRequest(99, changeRequest.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusApproved, approved.Status)

	var stored model.Provider
	require.NoError(t, testDB.First(&stored, provider.ID).Error)
	assert.Equal(t, "Joinery", stored.Specialization)
	assert.Equal(t, "https://cdn.example.com/new-cv.pdf", stored.CVURL)
	// Fields the request left empty keep their values
	assert.Equal(t, "Custom furniture", stored.Bio)
}

func TestProviderService_RejectChangeRequest(t *testing.T) {
	providerService, testDB, providerUser, provider := setupProviderServiceTest(t)

	changeRequest, err := providerService.CreateChangeRequest(providerUser.ID, "Joinery", "", "")
	require.NoError(t, err)

	rejected, err := providerService.RejectChangeRequest(99, changeRequest.ID, "Specialization not supported")
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusRejected, rejected.Status)
	assert.Equal(t, "Specialization not supported", rejected.RejectionReason)

	// Profile stays as it was
	var stored model.Provider
	require.NoError(t, testDB.First(&stored, provider.ID).Error)
	assert.Equal(t, "Carpentry", stored.Specialization)
}

func TestProviderService_ApproveChangeRequest_AlreadyReviewed(t *testing.T) {
	providerService, _, providerUser, _ := setupProviderServiceTest(t)

	changeRequest, err := providerService.CreateChangeRequest(providerUser.ID, "Joinery", "", "")
	require.NoError(t, err)

	_, err = providerService.RejectChangeRequest(99, changeRequest.ID, "no")
	require.NoError(t, err)

	_, err = providerService.ApproveChangeRequest(99, changeRequest.ID)
	assert.ErrorIs(t, err, ErrChangeRequestFinalized)
}

func TestProviderService_ListPendingProviders(t *testing.T) {
	providerService, _, _, provider := setupProviderServiceTest(t)

	providers, total, err := providerService.ListPendingProviders(20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, providers, 1)
	assert.Equal(t, provider.ID, providers[0].ID)

	_, err = providerService.ApproveProvider(99, provider.ID)
	require.NoError(t, err)

	_, total, err = providerService.ListPendingProviders(20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
