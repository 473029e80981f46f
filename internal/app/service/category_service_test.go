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

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewCategoryService(testDB, categoryRepo), testDB
}

func TestCategoryService_CreateCategory(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory("Gardening", "Lawn and garden care", "leaf")
	require.NoError(t, err)
	assert.NotZero(t, category.ID)

	var stored model.Category
	require.NoError(t, testDB.First(&stored, category.ID).Error)
	assert.Equal(t, "Gardening", stored.Name)
	assert.Equal(t, "leaf", stored.Icon)
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	_, err := categoryService.CreateCategory("Gardening", "", "")
	require.NoError(t, err)

	_, err = categoryService.CreateCategory("Gardening", "again", "")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory("Gardening", "Old description", "leaf")
	require.NoError(t, err)

	updated, err := categoryService.UpdateCategory(category.ID, "Landscaping", "New description", "")
	require.NoError(t, err)
	assert.Equal(t, "Landscaping", updated.Name)
	assert.Equal(t, "New description", updated.Description)
	// Unset fields keep their values
	assert.Equal(t, "leaf", updated.Icon)
}

func TestCategoryService_UpdateCategory_NotFound(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	_, err := categoryService.UpdateCategory(9999, "Ghost", "", "")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory("Gardening", "", "")
	require.NoError(t, err)

	err = categoryService.DeleteCategory(category.ID)
	require.NoError(t, err)

	_, err = categoryService.GetCategory(category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_DeleteCategory_InUse(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory("Gardening", "", "")
	require.NoError(t, err)

	providerUser := &model.User{
		Email:    "provider@example.com",
		Password: "hashed",
		Name:     "Provider",
		Role:     model.RoleProvider,
	}
	require.NoError(t, testDB.Create(providerUser).Error)
	provider := &model.Provider{
		UserID: providerUser.ID,
		Status: model.ApprovalStatusApproved,
	}
	require.NoError(t, testDB.Create(provider).Error)
	listing := &model.Service{
		ProviderID: provider.ID,
		CategoryID: category.ID,
		Title:      "Lawn Mowing",
		Price:      40,
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(listing).Error)

	err = categoryService.DeleteCategory(category.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
}

func TestCategoryService_ListCategories(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	_, err := categoryService.CreateCategory("Gardening", "", "")
	require.NoError(t, err)
	_, err = categoryService.CreateCategory("Cleaning", "", "")
	require.NoError(t, err)

	categories, err := categoryService.ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
