package routes

import (
	"log"
	"time"

	"padron-electoral/internal/config"
	"padron-electoral/internal/gateway/authclient"
	gwmw "padron-electoral/internal/gateway/middleware"
	"padron-electoral/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
)

// Setup wires the gateway: authentication middleware, per-route
// authorization policies and reverse proxying to the backend services.
func Setup(app *fiber.App, cfg *config.Config) {
	verifier := authclient.New(cfg.Gateway.AuthServiceURL, cfg.Gateway.VerifyTimeout)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"service":   "api-gateway",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": fiber.Map{
				"auth":   cfg.Gateway.AuthServiceURL,
				"padron": cfg.Gateway.PadronServiceURL,
			},
		})
	})

	// Public auth endpoints pass straight through to the auth service.
	app.All("/api/auth/*", forward(cfg.Gateway.AuthServiceURL, "auth"))

	// User administration lives in the auth service; the gateway enforces
	// policy before proxying. The auth service re-checks on its side.
	users := app.Group("/api/users", gwmw.Authenticate(verifier))
	users.Get("/profile", forward(cfg.Gateway.AuthServiceURL, "auth"))
	users.Put("/profile", forward(cfg.Gateway.AuthServiceURL, "auth"))
	users.Post("/change-password", forward(cfg.Gateway.AuthServiceURL, "auth"))
	users.Get("/roles", gwmw.AdminOnly(), forward(cfg.Gateway.AuthServiceURL, "auth"))
	users.Get("/:id", gwmw.Authorize(gwmw.OwnerOrAdmin("id")), forward(cfg.Gateway.AuthServiceURL, "auth"))
	users.Use(gwmw.AdminOnly())
	users.All("/*", forward(cfg.Gateway.AuthServiceURL, "auth"))

	// Padron service routes are permission-gated per operation.
	padron := app.Group("/padron", gwmw.Authenticate(verifier))
	padron.Get("/export", gwmw.Authorize(gwmw.RequireAllPermissions("padron.view", "padron.export")), forward(cfg.Gateway.PadronServiceURL, "padron"))
	padron.Post("/import", gwmw.Authorize(gwmw.RequireAllPermissions("padron.create", "padron.import")), forward(cfg.Gateway.PadronServiceURL, "padron"))
	padron.Get("/*", gwmw.Authorize(gwmw.RequireAnyPermission("padron.view")), forward(cfg.Gateway.PadronServiceURL, "padron"))
	padron.Post("/*", gwmw.Authorize(gwmw.RequireAnyPermission("padron.create")), forward(cfg.Gateway.PadronServiceURL, "padron"))
	padron.Put("/*", gwmw.Authorize(gwmw.RequireAnyPermission("padron.edit")), forward(cfg.Gateway.PadronServiceURL, "padron"))
	padron.Delete("/*", gwmw.Authorize(gwmw.RequireAnyPermission("padron.delete")), forward(cfg.Gateway.PadronServiceURL, "padron"))

	relevamientos := app.Group("/relevamientos", gwmw.Authenticate(verifier))
	relevamientos.Get("/*", gwmw.Authorize(gwmw.RequireAnyPermission("relevamiento.view")), forward(cfg.Gateway.PadronServiceURL, "padron"))
	relevamientos.All("/*", gwmw.Authorize(gwmw.RequireAnyPermission("relevamiento.manage")), forward(cfg.Gateway.PadronServiceURL, "padron"))

	dashboard := app.Group("/dashboard", gwmw.Authenticate(verifier))
	dashboard.Get("/*", gwmw.Authorize(gwmw.RequireAnyPermission("dashboard.view")), forward(cfg.Gateway.PadronServiceURL, "padron"))

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Endpoint not found")
	})
}

// forward proxies the request to the target service, preserving the
// original path. An unreachable backend degrades to 503.
func forward(target, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := proxy.Do(c, target+c.OriginalURL()); err != nil {
			log.Printf("gateway: proxy to %s service failed: %v", name, err)
			return response.ServiceUnavailable(c, "Service "+name+" unavailable")
		}
		// Strip the hop header added by the proxy.
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
