package routes

import (
	"time"

	"padron-electoral/internal/adapters/http/handlers"
	"padron-electoral/internal/adapters/http/middleware"
	"padron-electoral/internal/adapters/persistence/repositories"
	"padron-electoral/internal/config"
	"padron-electoral/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers for the auth service.
// Everything is constructed here and passed down explicitly; there are no
// package-level service singletons.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CleanupService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	blacklistRepo := repositories.NewBlacklistRepository(db)

	// Services
	tokenService := services.NewTokenService(userRepo, roleRepo, refreshRepo, blacklistRepo, cfg)
	authService := services.NewAuthService(userRepo, tokenService)
	userService := services.NewUserService(userRepo, roleRepo)
	cleanupService := services.NewCleanupService(refreshRepo, blacklistRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)

	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Auth routes. Token and claim responses must never be cached.
	auth := api.Group("/auth", middleware.NoStore())
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", middleware.AuthRateLimiter(), authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/verify", authHandler.Verify)
	auth.Get("/me", middleware.Authenticate(authService), authHandler.Me)

	// Self-service routes (any authenticated user)
	users := api.Group("/users")
	users.Use(middleware.Authenticate(authService))
	users.Get("/profile", userHandler.Profile)
	users.Put("/profile", userHandler.UpdateProfile)
	users.Post("/change-password", userHandler.ChangePassword)

	// Administration routes
	users.Get("/roles", middleware.AdminOnly(), middleware.PrivateCache(5*time.Minute), userHandler.ListRoles)
	users.Get("/", middleware.AdminOnly(), userHandler.List)
	users.Post("/", middleware.AdminOnly(), userHandler.Create)
	users.Get("/:id", middleware.OwnerOrAdmin("id"), userHandler.Get)
	users.Put("/:id", middleware.AdminOnly(), userHandler.Update)
	users.Patch("/:id/status", middleware.AdminOnly(), userHandler.Status)
	users.Post("/:id/reset-password", middleware.AdminOnly(), userHandler.ResetPassword)

	return cleanupService
}
