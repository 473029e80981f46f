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

func setupContactServiceTest(t *testing.T) (ContactService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	contactRepo := repository.NewContactRepository(testDB)
	return NewContactService(contactRepo), testDB
}

func TestContactService_SubmitMessage(t *testing.T) {
	contactService, testDB := setupContactServiceTest(t)

	message, err := contactService.SubmitMessage("Visitor", "visitor@example.com", "Question", "How do I become a provider?")
	require.NoError(t, err)
	assert.NotZero(t, message.ID)
	assert.False(t, message.IsRead)

	var stored model.ContactMessage
	require.NoError(t, testDB.First(&stored, message.ID).Error)
	assert.Equal(t, "visitor@example.com", stored.Email)
}

func TestContactService_ListMessages_UnreadOnly(t *testing.T) {
	contactService, _ := setupContactServiceTest(t)

	first, err := contactService.SubmitMessage("A", "a@example.com", "One", "first message")
	require.NoError(t, err)
	_, err = contactService.SubmitMessage("B", "b@example.com", "Two", "second message")
	require.NoError(t, err)

	require.NoError(t, contactService.MarkMessageRead(first.ID))

	messages, total, err := contactService.ListMessages(true, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, messages, 1)
	assert.Equal(t, "b@example.com", messages[0].Email)

	_, total, err = contactService.ListMessages(false, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestContactService_MarkMessageRead_NotFound(t *testing.T) {
	contactService, _ := setupContactServiceTest(t)

	err := contactService.MarkMessageRead(9999)
	assert.ErrorIs(t, err, ErrContactMessageNotFound)
}

func TestContactService_DeleteMessage(t *testing.T) {
	contactService, testDB := setupContactServiceTest(t)

	message, err := contactService.SubmitMessage("A", "a@example.com", "One", "first message")
	require.NoError(t, err)

	require.NoError(t, contactService.DeleteMessage(message.ID))

	var count int64
	testDB.Model(&model.ContactMessage{}).Count(&count)
	assert.Equal(t, int64(0), count)

	err = contactService.DeleteMessage(message.ID)
	assert.ErrorIs(t, err, ErrContactMessageNotFound)
}
