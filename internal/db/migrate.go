package db

import (
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"github.com/khadamati/khadamati-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Provider{},
		&model.Category{},
		&model.Service{},
		&model.Request{},
		&model.Review{},
		&model.Payment{},
		&model.Notification{},
		&model.NotificationSettings{},
		&model.ContactMessage{},
		&model.ProfileChangeRequest{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedCategories creates the default service categories.
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding category data...")

	categories := []model.Category{
		{Name: "Cleaning", Description: "Home and office cleaning services", Icon: "cleaning"},
		{Name: "Plumbing", Description: "Pipe repair, installation and maintenance", Icon: "plumbing"},
		{Name: "Electrical", Description: "Wiring, lighting and appliance repair", Icon: "electrical"},
		{Name: "Painting", Description: "Interior and exterior painting", Icon: "painting"},
		{Name: "Carpentry", Description: "Furniture assembly and woodwork", Icon: "carpentry"},
		{Name: "Air Conditioning", Description: "AC installation, cleaning and repair", Icon: "ac"},
		{Name: "Gardening", Description: "Garden care and landscaping", Icon: "gardening"},
		{Name: "Moving", Description: "Home and office moving services", Icon: "moving"},
	}

	totalInserted := 0
	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": totalInserted,
	})

	return nil
}

// seedAdminUser creates the bootstrap admin account if no admin exists yet.
func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin user already exists, skipping...")
		return nil
	}

	hashedPassword, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    "admin@khadamati.app",
		Password: hashedPassword,
		Role:     model.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warn("Bootstrap admin account created, change the default password", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}
