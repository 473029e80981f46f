package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khadamati/khadamati-backend/config"
	"github.com/khadamati/khadamati-backend/internal/app/controller"
	"github.com/khadamati/khadamati-backend/internal/app/repository"
	"github.com/khadamati/khadamati-backend/internal/app/service"
	"github.com/khadamati/khadamati-backend/internal/db"
	"github.com/khadamati/khadamati-backend/internal/middleware"
	"github.com/khadamati/khadamati-backend/internal/router"
	"github.com/khadamati/khadamati-backend/internal/scheduler"
	"github.com/khadamati/khadamati-backend/internal/storage"
	"github.com/khadamati/khadamati-backend/internal/websocket"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"github.com/khadamati/khadamati-backend/pkg/mailer"
	"github.com/khadamati/khadamati-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Khadamati Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed default categories and the admin account
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the refresh token blacklist. The server still runs
	// without it; revocation is simply skipped.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Realtime notification hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	providerRepo := repository.NewProviderRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	serviceRepo := repository.NewServiceRepository(db.GetDB())
	requestRepo := repository.NewRequestRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	paymentRepo := repository.NewPaymentRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())
	contactRepo := repository.NewContactRepository(db.GetDB())
	changeRepo := repository.NewProfileChangeRepository(db.GetDB())
	passwordResetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Initialize services
	appMailer := mailer.NewMailer(cfg.SMTP)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(
		db.GetDB(),
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(passwordResetRepo, userRepo, appMailer, cfg.SMTP.ResetBaseURL)
	providerService := service.NewProviderService(db.GetDB(), providerRepo, changeRepo, notificationService, appMailer)
	categoryService := service.NewCategoryService(db.GetDB(), categoryRepo)
	catalogService := service.NewCatalogService(db.GetDB(), serviceRepo, providerRepo, categoryRepo)
	requestService := service.NewRequestService(db.GetDB(), requestRepo, serviceRepo, providerRepo, reviewRepo, notificationService)
	reviewService := service.NewReviewService(db.GetDB(), reviewRepo, requestRepo, notificationService)
	paymentService := service.NewPaymentService(paymentRepo, requestRepo)
	contactService := service.NewContactService(contactRepo)

	// Initialize controllers
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	authController := controller.NewAuthController(authService, passwordResetService)
	providerController := controller.NewProviderController(providerService, reviewService)
	categoryController := controller.NewCategoryController(categoryService)
	serviceController := controller.NewServiceController(catalogService)
	requestController := controller.NewRequestController(requestService)
	reviewController := controller.NewReviewController(reviewService)
	paymentController := controller.NewPaymentController(paymentService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	contactController := controller.NewContactController(contactService)
	adminController := controller.NewAdminController(providerService, contactService, paymentService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly sweep for unanswered bookings
	requestScheduler := scheduler.NewRequestScheduler(requestService)
	if err := requestScheduler.Start(); err != nil {
		logger.Error("Failed to start request scheduler", err)
	}
	defer requestScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		providerController,
		categoryController,
		serviceController,
		requestController,
		reviewController,
		paymentController,
		notificationController,
		contactController,
		adminController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
