package handlers

import (
	"errors"

	"padron-electoral/internal/adapters/http/middleware"
	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/core/services"
	"padron-electoral/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates a user and returns a token pair
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	result, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Generic message: never disclose which field was wrong.
			return response.Unauthorized(c, "Invalid credentials")
		}
		return response.InternalServerError(c, "Login failed")
	}

	return response.Success(c, "Login successful", result)
}

// Logout revokes the presented token. Revocation errors are swallowed by
// the service, so a request with a token always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return response.Unauthorized(c, "Access token required")
	}

	h.authService.Logout(c.Context(), token)
	return response.Success(c, "Logout successful", nil)
}

// Verify validates the presented token and returns the resolved claims.
// The gateway's authentication middleware calls this endpoint.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return response.Unauthorized(c, "Access token required")
	}

	claims, err := h.authService.Verify(c.Context(), token)
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
			return response.InternalServerError(c, "Verification failed")
		}
	}

	return response.Success(c, "Token valid", claims)
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token required")
	}

	result, err := h.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			return response.Unauthorized(c, "Invalid or expired refresh token")
		case errors.Is(err, domain.ErrUserInactive):
			return response.Unauthorized(c, "User account is inactive")
		default:
			return response.InternalServerError(c, "Refresh failed")
		}
	}

	return response.Success(c, "Token refreshed", result)
}

// Me returns the claims of the authenticated caller
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	return response.Success(c, "", claims)
}
