package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"padron-electoral/internal/adapters/http/middleware"
	"padron-electoral/internal/config"
	"padron-electoral/internal/gateway/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Padron Electoral API Gateway",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, cfg)

	go gracefulShutdown(app)

	log.Printf("Gateway starting on port %s [MODE: %s]", cfg.Gateway.Port, cfg.AppMode)
	log.Printf("Auth service: %s", cfg.Gateway.AuthServiceURL)
	log.Printf("Padron service: %s", cfg.Gateway.PadronServiceURL)
	if err := app.Listen(":" + cfg.Gateway.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gateway...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Gateway stopped")
}
