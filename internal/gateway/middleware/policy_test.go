package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"padron-electoral/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

func policyApp(p Policy, claims *domain.UserClaims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals(ClaimsKey, claims)
		}
		return c.Next()
	})
	app.Get("/resource/:id", Authorize(p), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func policyStatus(t *testing.T, p Policy, claims *domain.UserClaims, path string) int {
	t.Helper()
	app := policyApp(p, claims)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp.StatusCode
}

func consultorClaims() *domain.UserClaims {
	return &domain.UserClaims{
		ID:       7,
		Username: "mgarcia",
		Rol:      domain.RoleConsultor,
		Permisos: []string{"padron.view", "dashboard.view"},
		Active:   true,
	}
}

func adminClaims() *domain.UserClaims {
	return &domain.UserClaims{
		ID:       1,
		Username: "admin",
		Rol:      domain.RoleAdministrador,
		Permisos: []string{"admin.users", "admin.roles"},
		Active:   true,
	}
}

func TestAuthorizeRequiresClaims(t *testing.T) {
	if got := policyStatus(t, RequireRole(domain.RoleConsultor), nil, "/resource/1"); got != fiber.StatusUnauthorized {
		t.Fatalf("no claims: expected 401, got %d", got)
	}
}

func TestRequireRolePolicy(t *testing.T) {
	if got := policyStatus(t, RequireRole(domain.RoleConsultor), consultorClaims(), "/resource/1"); got != fiber.StatusOK {
		t.Fatalf("matching role: expected 200, got %d", got)
	}
	if got := policyStatus(t, RequireRole(domain.RoleAdministrador), consultorClaims(), "/resource/1"); got != fiber.StatusForbidden {
		t.Fatalf("wrong role: expected 403, got %d", got)
	}
}

func TestRequireAnyRolePolicy(t *testing.T) {
	p := RequireAnyRole(domain.RoleAdministrador, domain.RoleConsultor)
	if got := policyStatus(t, p, consultorClaims(), "/resource/1"); got != fiber.StatusOK {
		t.Fatalf("listed role: expected 200, got %d", got)
	}

	encargado := consultorClaims()
	encargado.Rol = domain.RoleEncargado
	if got := policyStatus(t, p, encargado, "/resource/1"); got != fiber.StatusForbidden {
		t.Fatalf("unlisted role: expected 403, got %d", got)
	}
}

func TestRequireAnyPermissionPolicy(t *testing.T) {
	p := RequireAnyPermission("padron.export", "padron.view")
	if got := policyStatus(t, p, consultorClaims(), "/resource/1"); got != fiber.StatusOK {
		t.Fatalf("one permission held: expected 200, got %d", got)
	}

	p = RequireAnyPermission("padron.delete", "padron.import")
	if got := policyStatus(t, p, consultorClaims(), "/resource/1"); got != fiber.StatusForbidden {
		t.Fatalf("no permission held: expected 403, got %d", got)
	}
}

func TestRequireAllPermissionsPolicy(t *testing.T) {
	p := RequireAllPermissions("padron.view", "dashboard.view")
	if got := policyStatus(t, p, consultorClaims(), "/resource/1"); got != fiber.StatusOK {
		t.Fatalf("all permissions held: expected 200, got %d", got)
	}

	p = RequireAllPermissions("padron.view", "padron.export")
	app := policyApp(p, consultorClaims())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource/1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("missing permission: expected 403, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, resp); !strings.Contains(msg, "padron.export") || strings.Contains(msg, "padron.view") {
		t.Fatalf("403 must name only the missing permissions: %s", msg)
	}
}

func TestOwnerOrAdminPolicy(t *testing.T) {
	p := OwnerOrAdmin("id")

	if got := policyStatus(t, p, consultorClaims(), "/resource/7"); got != fiber.StatusOK {
		t.Fatalf("owner: expected 200, got %d", got)
	}
	if got := policyStatus(t, p, consultorClaims(), "/resource/8"); got != fiber.StatusForbidden {
		t.Fatalf("other user's resource: expected 403, got %d", got)
	}
	if got := policyStatus(t, p, adminClaims(), "/resource/7"); got != fiber.StatusOK {
		t.Fatalf("admin bypass: expected 200, got %d", got)
	}
	if got := policyStatus(t, p, consultorClaims(), "/resource/not-a-number"); got != fiber.StatusForbidden {
		t.Fatalf("malformed id: expected 403, got %d", got)
	}
}

func TestAdminOnly(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(ClaimsKey, adminClaims())
		return c.Next()
	})
	app.Get("/admin", AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin: expected 200, got %d", resp.StatusCode)
	}
}
