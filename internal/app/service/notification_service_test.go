package service

import (
	"testing"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (NotificationService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, nil)

	user := &model.User{
		Email:    "user@example.com",
		Password: "hashed",
		Name:     "Test User",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	return notificationService, testDB, user
}

func TestNotificationService_NotifyAndList(t *testing.T) {
	notificationService, _, user := setupNotificationServiceTest(t)

	err := notificationService.Notify(user.ID, model.NotificationTypeRequestStatus,
		"Booking status updated", "Your booking was accepted.", "/requests/1", nil)
	require.NoError(t, err)
	err = notificationService.Notify(user.ID, model.NotificationTypeNewReview,
		"You received a new review", "5/5 stars.", "/provider/reviews/1", nil)
	require.NoError(t, err)

	notifications, total, err := notificationService.List(user.ID, nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, notifications, 2)

	// Type filter
	statusType := model.NotificationTypeRequestStatus
	notifications, total, err = notificationService.List(user.ID, &statusType, nil, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Booking status updated", notifications[0].Title)
}

func TestNotificationService_UnreadCountAndMarkAsRead(t *testing.T) {
	notificationService, _, user := setupNotificationServiceTest(t)

	err := notificationService.Notify(user.ID, model.NotificationTypeRequestStatus, "A", "a", "", nil)
	require.NoError(t, err)
	err = notificationService.Notify(user.ID, model.NotificationTypeRequestStatus, "B", "b", "", nil)
	require.NoError(t, err)

	count, err := notificationService.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	notifications, _, err := notificationService.List(user.ID, nil, nil, 20, 0)
	require.NoError(t, err)

	err = notificationService.MarkAsRead(user.ID, notifications[0].ID)
	require.NoError(t, err)

	count, err = notificationService.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = notificationService.MarkAllAsRead(user.ID)
	require.NoError(t, err)

	count, err = notificationService.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_MarkAsRead_NotOwn(t *testing.T) {
	notificationService, testDB, user := setupNotificationServiceTest(t)

	err := notificationService.Notify(user.ID, model.NotificationTypeRequestStatus, "A", "a", "", nil)
	require.NoError(t, err)

	other := &model.User{
		Email:    "other@example.com",
		Password: "hashed",
		Name:     "Other",
		Role:     model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(other).Error)

	notifications, _, err := notificationService.List(user.ID, nil, nil, 20, 0)
	require.NoError(t, err)

	err = notificationService.MarkAsRead(other.ID, notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationForbidden)
}

func TestNotificationService_Delete(t *testing.T) {
	notificationService, testDB, user := setupNotificationServiceTest(t)

	err := notificationService.Notify(user.ID, model.NotificationTypeRequestStatus, "A", "a", "", nil)
	require.NoError(t, err)

	notifications, _, err := notificationService.List(user.ID, nil, nil, 20, 0)
	require.NoError(t, err)

	err = notificationService.Delete(user.ID, notifications[0].ID)
	require.NoError(t, err)

	var count int64
	testDB.Model(&model.Notification{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	err = notificationService.Delete(user.ID, notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
