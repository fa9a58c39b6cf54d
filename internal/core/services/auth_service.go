package services

import (
	"context"
	"errors"
	"log"

	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/adapters/persistence/repositories"
	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/pkg/password"
)

// AuthService orchestrates login, logout, verification and refresh.
// Sessions are stateless: nothing beyond the refresh token and the
// blacklist side tables is stored for an authenticated user.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// LoginResult represents a successful authentication response
type LoginResult struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	ExpiresIn    int64                `json:"expiresIn"`
}

// Login authenticates a user and issues a token pair. Absent user,
// inactive account and wrong password all map to the same generic error so
// the response cannot be used for username enumeration.
func (s *AuthService) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("User logged in: %s", user.Username)

	return &LoginResult{
		User:         user.ToResponse(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Logout revokes the access token and all of the user's refresh tokens.
// It never fails the caller: client-side session teardown must not be
// blocked by server-side bookkeeping problems, so errors are logged and
// swallowed.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	if err := s.tokens.Revoke(ctx, accessToken); err != nil {
		log.Printf("logout: revocation error ignored: %v", err)
	}
}

// Verify validates an access token and returns the resolved claims
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*domain.UserClaims, error) {
	return s.tokens.Verify(ctx, accessToken)
}

// Refresh rotates a refresh token into a new access + refresh pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	user, pair, err := s.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	log.Printf("Token refreshed for user: %s", user.Username)

	return &LoginResult{
		User:         user.ToResponse(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
