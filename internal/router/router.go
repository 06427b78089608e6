// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/handlers"
	"github.com/gisportal/evisa-backend/internal/middleware"
	"github.com/gisportal/evisa-backend/internal/payment"
	"github.com/gisportal/evisa-backend/internal/services"
	"github.com/gisportal/evisa-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, gateway payment.Gateway) (*gin.Engine, *services.ReminderService, error) {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, nil, err
	}

	applicationService := services.NewApplicationService(db, gateway, storageService, notificationService, cfg)
	feedbackService := services.NewFeedbackService(db)
	authService := services.NewAuthService(db, cfg)
	reminderService := services.NewReminderService(applicationService, notificationService, cfg)

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(applicationService, storageService)
	adminHandler := handlers.NewAdminHandler(applicationService, feedbackService)
	authHandler := handlers.NewAuthHandler(authService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes (staff only)
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Application routes (public)
		applications := v1.Group("/applications")
		{
			applications.POST("", middleware.SubmitRateLimit(), applicationHandler.SubmitApplication)
			applications.POST("/documents", middleware.UploadRateLimit(), applicationHandler.UploadDocuments)
			applications.GET("/status/:reference", applicationHandler.GetApplicationStatus)
		}

		// Informational routes
		v1.GET("/visa-types", applicationHandler.GetVisaTypes)

		// Feedback routes (public)
		v1.POST("/feedback", feedbackHandler.SubmitFeedback)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			adminApplications := admin.Group("/applications")
			{
				adminApplications.GET("", adminHandler.GetApplications)
				adminApplications.GET("/:id", adminHandler.GetApplication)
				adminApplications.GET("/:id/documents", adminHandler.GetApplicationDocuments)
				adminApplications.PUT("/:id/status", adminHandler.UpdateApplicationStatus)
				adminApplications.POST("/:id/reopen", middleware.AdminRequired(), adminHandler.ReopenApplication)
			}

			adminFeedback := admin.Group("/feedback")
			{
				adminFeedback.GET("", adminHandler.GetFeedback)
				adminFeedback.PUT("/:id/status", adminHandler.MarkFeedbackReviewed)
			}
		}
	}

	return r, reminderService, nil
}
