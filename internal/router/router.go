package router

import (
	"github.com/gin-gonic/gin"
	"github.com/khadamati/khadamati-backend/config"
	"github.com/khadamati/khadamati-backend/internal/app/controller"
	"github.com/khadamati/khadamati-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	providerController     *controller.ProviderController
	categoryController     *controller.CategoryController
	serviceController      *controller.ServiceController
	requestController      *controller.RequestController
	reviewController       *controller.ReviewController
	paymentController      *controller.PaymentController
	notificationController *controller.NotificationController
	contactController      *controller.ContactController
	adminController        *controller.AdminController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	providerController *controller.ProviderController,
	categoryController *controller.CategoryController,
	serviceController *controller.ServiceController,
	requestController *controller.RequestController,
	reviewController *controller.ReviewController,
	paymentController *controller.PaymentController,
	notificationController *controller.NotificationController,
	contactController *controller.ContactController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		providerController:     providerController,
		categoryController:     categoryController,
		serviceController:      serviceController,
		requestController:      requestController,
		reviewController:       reviewController,
		paymentController:      paymentController,
		notificationController: notificationController,
		contactController:      contactController,
		adminController:        adminController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "OK",
			"message": "Khadamati API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
		}

		providers := v1.Group("/providers")
		{
			providers.GET("", r.providerController.ListProviders)
			providers.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.providerController.GetProvider)
			providers.GET("/:id/reviews", r.providerController.GetProviderReviews)
		}

		services := v1.Group("/services")
		{
			services.GET("", r.serviceController.ListServices)
			services.GET("/:id", r.serviceController.GetService)

			services.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("provider"),
				r.serviceController.CreateService,
			)
			services.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("provider", "admin"),
				r.serviceController.UpdateService,
			)
			services.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("provider", "admin"),
				r.serviceController.DeleteService,
			)
		}

		requests := v1.Group("/requests")
		requests.Use(r.authMiddleware.Authenticate())
		{
			requests.POST("",
				r.authMiddleware.RequireRole("customer"),
				r.requestController.CreateRequest,
			)
			requests.GET("", r.requestController.ListMyRequests)
			requests.GET("/:id", r.requestController.GetRequest)
			requests.PATCH("/:id/status", r.requestController.UpdateStatus)
			requests.DELETE("/:id", r.requestController.DeleteRequest)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.POST("",
				r.authMiddleware.RequireRole("customer"),
				r.reviewController.CreateReview,
			)
			reviews.PUT("/:id", r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
		}

		payments := v1.Group("/payments")
		payments.Use(r.authMiddleware.Authenticate())
		{
			payments.POST("",
				r.authMiddleware.RequireRole("customer"),
				r.paymentController.CreatePayment,
			)
			payments.GET("", r.paymentController.ListMyPayments)
			payments.GET("/:id", r.paymentController.GetPayment)
			payments.PATCH("/:id/status", r.paymentController.UpdatePaymentStatus)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.ListNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PATCH("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
			notifications.GET("/settings", r.notificationController.GetSettings)
			notifications.PUT("/settings", r.notificationController.UpdateSettings)
		}

		// Realtime notification push; the token rides in the query string
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.notificationController.ServeWebSocket)

		v1.POST("/contact", r.contactController.SubmitMessage)

		provider := v1.Group("/provider")
		provider.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("provider"))
		{
			provider.GET("/profile", r.providerController.GetMyProfile)
			provider.PUT("/documents", r.providerController.UpdateDocuments)
			provider.GET("/requests", r.requestController.ListProviderRequests)
			provider.POST("/change-requests", r.providerController.CreateChangeRequest)
			provider.GET("/change-requests", r.providerController.ListMyChangeRequests)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/providers/pending", r.adminController.ListPendingProviders)
			admin.POST("/providers/:id/approve", r.adminController.ApproveProvider)
			admin.POST("/providers/:id/reject", r.adminController.RejectProvider)

			admin.GET("/change-requests", r.adminController.ListPendingChangeRequests)
			admin.POST("/change-requests/:id/approve", r.adminController.ApproveChangeRequest)
			admin.POST("/change-requests/:id/reject", r.adminController.RejectChangeRequest)

			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			admin.GET("/contact-messages", r.adminController.ListContactMessages)
			admin.PATCH("/contact-messages/:id/read", r.adminController.MarkContactMessageRead)
			admin.DELETE("/contact-messages/:id", r.adminController.DeleteContactMessage)

			admin.GET("/payments", r.adminController.ListAllPayments)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
