package db

import (
	"fmt"
	"log"

	"github.com/khadamati/khadamati-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// NotificationSettings uses a postgres array column and is excluded here.
	err = db.AutoMigrate(
		&model.User{},
		&model.PasswordReset{},
		&model.Provider{},
		&model.Category{},
		&model.Service{},
		&model.Request{},
		&model.Review{},
		&model.Payment{},
		&model.Notification{},
		&model.ContactMessage{},
		&model.ProfileChangeRequest{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"reviews", "payments", "notifications", "requests", "services",
		"categories", "profile_change_requests", "contact_messages",
		"password_resets", "providers", "users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
