package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/givestream/donation-platform/internal/config"
	"github.com/givestream/donation-platform/internal/constants"
	"github.com/givestream/donation-platform/internal/database"
	"github.com/givestream/donation-platform/internal/handlers"
	"github.com/givestream/donation-platform/internal/logger"
	"github.com/givestream/donation-platform/internal/middleware"
	"github.com/givestream/donation-platform/internal/models"
	"github.com/givestream/donation-platform/internal/repository"
	"github.com/givestream/donation-platform/internal/services"
	"github.com/givestream/donation-platform/internal/webhook"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	zapLogger, err := logger.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	// The index helper inspects pg_indexes; other drivers rely on the
	// AutoMigrate tags alone.
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			zapLogger.Warn("Failed to add indexes", zap.Error(err))
		}
	}

	// Initialize Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	// Setup session middleware with signed cookies
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Webhook emitter (disabled when no URL is configured)
	emitter := webhook.NewClient(cfg.WebhookURL, cfg.WebhookTimeout, zapLogger)

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganisationRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, emitter)
	orgService := services.NewOrganisationService(orgRepo, campaignRepo, donationRepo, userRepo, emitter)
	campaignService := services.NewCampaignService(campaignRepo, orgRepo, emitter)
	donationService := services.NewDonationService(donationRepo, campaignRepo, orgRepo, userRepo, emitter)
	adminService := services.NewAdminService(userRepo, orgRepo, campaignRepo, donationRepo, zapLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganisationHandler(orgService, campaignService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	donationHandler := handlers.NewDonationHandler(donationService)
	adminHandler := handlers.NewAdminHandler(adminService, orgService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Donation Platform API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Organisation routes
		orgs := api.Group("/organisations")
		{
			orgs.GET("", orgHandler.ListOrganisations)
			orgs.GET("/:id", orgHandler.GetOrganisation)
			orgs.POST("", middleware.RequireAuth(), orgHandler.CreateOrganisation)
			orgs.GET("/me", middleware.RequireAuth(), orgHandler.GetOwnOrganisation)
			orgs.GET("/me/dashboard", middleware.RequireAuth(), orgHandler.Dashboard)
			orgs.GET("/me/donations", middleware.RequireAuth(), orgHandler.ListOwnDonations)
		}

		// Campaign routes
		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.ListCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.POST("", middleware.RequireAuth(), campaignHandler.CreateCampaign)
		}

		// Donation routes (protected)
		donations := api.Group("/donations")
		donations.Use(middleware.RequireAuth())
		{
			donations.POST("", donationHandler.CreateDonation)
			donations.GET("", donationHandler.ListDonations)
			donations.GET("/dashboard", donationHandler.Dashboard)
			donations.GET("/:id", donationHandler.GetDonation)
			donations.PATCH("/:id/status", donationHandler.UpdatePaymentStatus)
		}

		// Admin routes (protected, admin only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.GetPlatformStats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/organisations", adminHandler.ListOrganisations)
			admin.POST("/organisations/:id/verify", adminHandler.VerifyOrganisation)
			admin.GET("/reports/financial", adminHandler.GetFinancialReport)
			admin.POST("/reconcile", adminHandler.ReconcileAggregates)
		}
	}

	// Start server
	zapLogger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
