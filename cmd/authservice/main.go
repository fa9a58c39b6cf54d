package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"padron-electoral/internal/adapters/http/middleware"
	"padron-electoral/internal/adapters/http/routes"
	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/config"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadAuthService()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Padron Electoral Auth Service",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)

	cleanup := routes.Setup(app, db, cfg)
	cleanup.Start()
	defer cleanup.Stop()

	go gracefulShutdown(app)

	log.Printf("Auth service starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down auth service...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Auth service stopped")
}
