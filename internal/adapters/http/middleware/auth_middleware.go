package middleware

import (
	"errors"
	"strings"

	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/core/services"
	"padron-electoral/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber locals key the authenticated identity is stored
// under.
const ClaimsKey = "claims"

// BearerToken extracts the bearer token from the Authorization header
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// ClaimsFromCtx returns the identity attached by Authenticate, if any
func ClaimsFromCtx(c *fiber.Ctx) (*domain.UserClaims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*domain.UserClaims)
	return claims, ok
}

// Authenticate verifies the bearer token against the auth service directly
// (in-process) and attaches the resulting claims to the request.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := authService.Verify(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrExpiredToken):
				return response.Unauthorized(c, "Token expired")
			case errors.Is(err, domain.ErrRevokedToken):
				return response.Unauthorized(c, "Token revoked")
			case errors.Is(err, domain.ErrUserInactive):
				return response.Unauthorized(c, "User account is inactive")
			case errors.Is(err, domain.ErrInvalidToken):
				return response.Unauthorized(c, "Invalid token")
			default:
				return response.InternalServerError(c, "Authentication failed")
			}
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// AdminOnly allows only the administrator role through
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if !claims.IsAdmin() {
			return response.Forbidden(c, "Administrator role required")
		}
		return c.Next()
	}
}

// OwnerOrAdmin allows the request when the :id route parameter matches the
// acting user, or the acting user is an administrator.
func OwnerOrAdmin(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if claims.IsAdmin() {
			return c.Next()
		}

		id, err := c.ParamsInt(param)
		if err != nil || id <= 0 || uint(id) != claims.ID {
			return response.Forbidden(c, "Only the resource owner or an administrator may access this resource")
		}
		return c.Next()
	}
}
