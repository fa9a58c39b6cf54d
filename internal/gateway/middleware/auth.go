package middleware

import (
	"errors"
	"log"
	"strings"

	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/gateway/authclient"
	"padron-electoral/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber locals key the verified identity is stored under
const ClaimsKey = "claims"

// TokenVerifier resolves a bearer token into user claims. Satisfied by
// *authclient.Client; tests substitute their own.
type TokenVerifier interface {
	Verify(token string) (*domain.UserClaims, error)
}

// ClaimsFromCtx returns the identity attached by Authenticate, if any
func ClaimsFromCtx(c *fiber.Ctx) (*domain.UserClaims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*domain.UserClaims)
	return claims, ok
}

// Authenticate intercepts requests to protected routes, verifies the
// bearer token against the auth service and attaches the resulting claims
// to the request context. Identity resolution is the only network call;
// authorization policy stays local (see Authorize).
func Authenticate(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Access token required")
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := verifier.Verify(token)
		if err != nil {
			var ve *authclient.VerifyError
			switch {
			case errors.Is(err, domain.ErrServiceUnavailable):
				return response.ServiceUnavailable(c, "Authentication service unavailable")
			case errors.As(err, &ve):
				if ve.StatusCode == fiber.StatusUnauthorized {
					return response.Unauthorized(c, ve.Message)
				}
				log.Printf("gateway: unexpected verify status %d: %s", ve.StatusCode, ve.Message)
				return response.InternalServerError(c, "Authentication failed")
			default:
				log.Printf("gateway: verify error: %v", err)
				return response.InternalServerError(c, "Authentication failed")
			}
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}
