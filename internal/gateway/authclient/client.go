package authclient

import (
	"encoding/json"
	"fmt"
	"time"

	"padron-electoral/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Client verifies bearer tokens against the auth service over HTTP. The
// gateway holds no signing secret; trust is delegated to the verify
// endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New creates a verify client for the given auth service base URL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
	}
}

// VerifyError carries the auth service's rejection back to the gateway
type VerifyError struct {
	StatusCode int
	Message    string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify rejected (%d): %s", e.StatusCode, e.Message)
}

type verifyResponse struct {
	Success bool               `json:"success"`
	Error   string             `json:"error"`
	Data    *domain.UserClaims `json:"data"`
}

// Verify posts the token to the auth service's verify endpoint. A
// connection failure or timeout maps to ErrServiceUnavailable: the gateway
// degrades, it never silently allows a request through.
func (c *Client) Verify(token string) (*domain.UserClaims, error) {
	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(c.baseURL + "/api/auth/verify")
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	req.Header.SetContentType(fiber.MIMEApplicationJSON)

	agent.Timeout(c.timeout)

	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, errs[0])
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	if code == fiber.StatusOK && parsed.Success && parsed.Data != nil {
		return parsed.Data, nil
	}

	message := parsed.Error
	if message == "" {
		message = "Invalid token"
	}
	return nil, &VerifyError{StatusCode: code, Message: message}
}
