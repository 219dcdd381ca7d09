package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ronsway/MakeMyDay/internal/auth"
	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/handler"
	"github.com/ronsway/MakeMyDay/internal/repository"
	"github.com/ronsway/MakeMyDay/internal/service"
	"github.com/ronsway/MakeMyDay/internal/version"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("MakeMyDay API Server")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")
	log.Printf("   - Timezone: %s", cfg.Server.Timezone)

	// Initialize services
	ingestService := service.NewIngestService(repo, cfg.Server.Timezone)
	authService := auth.NewService(repo, cfg.Auth)

	log.Println("✅ Services initialized")

	// Initialize handlers
	ingestHandler := handler.NewIngestHandler(ingestService, cfg.Ingest.DefaultSource, cfg.Ingest.MaxMessageLength)
	tasksHandler := handler.NewTasksHandler(repo, ingestService, cfg.Server.Timezone)
	eventsHandler := handler.NewEventsHandler(repo, ingestService, cfg.Server.Timezone)
	analyticsHandler := handler.NewAnalyticsHandler(repo, cfg.Server.Timezone)
	authHandler := handler.NewAuthHandler(authService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-Client-Version", "X-API-Version"}
	router.Use(cors.New(corsConfig))

	// Client/API version negotiation
	router.Use(handler.VersionCheck())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		dbStatus := "healthy"
		if err := repo.Ping(c.Request.Context()); err != nil {
			dbStatus = "unreachable"
		}
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "makemyday-api",
			"database":   dbStatus,
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoints
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})
	router.GET("/api/version", func(c *gin.Context) {
		info := version.Info()
		if cv := c.GetHeader("X-Client-Version"); cv != "" {
			info["clientVersion"] = cv
			info["clientSupported"] = version.IsClientSupported(cv)
			info["enabledFeatures"] = version.EnabledFeatures(cv)
		}
		c.JSON(200, info)
	})

	// API routes
	api := router.Group("/api")
	{
		// Auth endpoints
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/verify-email", authHandler.VerifyEmail)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)

			protected := authGroup.Group("")
			protected.Use(handler.RequireAuth(authService))
			{
				protected.GET("/me", authHandler.Me)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// Message ingestion and derived records
		api.POST("/ingest", handler.OptionalAuth(authService), ingestHandler.Ingest)
		api.GET("/tasks", tasksHandler.List)
		api.PUT("/tasks/:id/complete", tasksHandler.Complete)
		api.GET("/events", eventsHandler.List)
		api.GET("/analytics", analyticsHandler.Summary)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API base: http://localhost:%d/api", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
