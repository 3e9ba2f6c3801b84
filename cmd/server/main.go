package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindhaven/mindhaven-api/internal/auth"
	"github.com/mindhaven/mindhaven-api/internal/config"
	"github.com/mindhaven/mindhaven-api/internal/database"
	"github.com/mindhaven/mindhaven-api/internal/handlers"
	"github.com/mindhaven/mindhaven-api/internal/middleware"
	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"github.com/mindhaven/mindhaven-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	// Initialize services
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	goalService := services.NewGoalService(goalRepo, userRepo, achievementRepo)
	authService := services.NewAuthService(userRepo, customerRepo, tokens, goalService)
	userService := services.NewUserService(userRepo, customerRepo, achievementRepo)
	customerService := services.NewCustomerService(customerRepo, userRepo, goalService)
	achievementService := services.NewAchievementService(achievementRepo)

	// Start the goal scheduler
	scheduler := services.NewGoalScheduler(goalService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	achievementHandler := handlers.NewAchievementHandler(achievementService, goalService)
	adminHandler := handlers.NewAdminHandler(goalService, userService, achievementService, scheduler)

	requireAuth := middleware.RequireAuth(tokens, userRepo)
	requireStaff := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)
	requireAdmin := middleware.RequireRoles(models.RoleAdmin)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "MindHaven API is running",
		})
	})

	// API routes
	api := r.Group("/api/v1")
	{
		// Tenant signup (public)
		api.POST("/customers/register", customerHandler.Register)

		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", requireAuth, authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
			authRoutes.POST("/register", requireAuth, requireStaff, authHandler.Register)
		}

		// Customer routes (protected)
		customers := api.Group("/customers")
		customers.Use(requireAuth)
		{
			customers.GET("/me", customerHandler.GetCurrent)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", requireStaff, userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", requireAdmin, userHandler.Delete)
		}

		// Goal and catalog routes (protected)
		achievements := api.Group("/achievements")
		achievements.Use(requireAuth)
		{
			achievements.GET("", achievementHandler.CurrentGoals)
			achievements.GET("/all", achievementHandler.ListAll)
			achievements.GET("/categories", achievementHandler.Categories)
			achievements.GET("/recent", achievementHandler.RecentCompleted)
			achievements.GET("/progress", achievementHandler.Progress)
			achievements.GET("/:id", achievementHandler.Get)
			achievements.POST("/:id/complete", achievementHandler.Complete)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(requireAuth, requireStaff)
		{
			admin.POST("/goals/assign-daily", adminHandler.AssignDaily)
			admin.POST("/goals/assign-weekly", adminHandler.AssignWeekly)
			admin.POST("/goals/assign-monthly", adminHandler.AssignMonthly)
			admin.POST("/goals/reassign/:user_id", adminHandler.Reassign)

			admin.POST("/users/:user_id/activate", adminHandler.Activate)
			admin.POST("/users/:user_id/deactivate", adminHandler.Deactivate)
			admin.POST("/users/:user_id/unlock", adminHandler.Unlock)
			admin.POST("/users/:user_id/promote", requireAdmin, adminHandler.Promote)
			admin.POST("/users/:user_id/demote", requireAdmin, adminHandler.Demote)

			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users/search", adminHandler.SearchUsers)
			admin.GET("/scheduler/jobs", adminHandler.SchedulerJobs)

			admin.POST("/achievements", adminHandler.CreateAchievement)
			admin.POST("/achievements/upload", adminHandler.UploadAchievements)
			admin.POST("/achievements/preview", adminHandler.PreviewAchievements)
			admin.DELETE("/achievements/:id", adminHandler.DeleteAchievement)
		}
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	// Start server
	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Drain in-flight requests and stop the scheduler on shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
