package services

import (
	"context"
	"errors"
	"time"

	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/adapters/persistence/repositories"
	"padron-electoral/internal/config"
	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/pkg/jwt"
	"padron-electoral/internal/pkg/password"

	"github.com/google/uuid"
)

// TokenService owns issuance, verification, rotation and revocation of
// tokens. Access tokens are self-contained and never persisted; refresh
// tokens and the revocation list live in the credential store.
type TokenService struct {
	userRepo      repositories.UserRepository
	roleRepo      repositories.RoleRepository
	refreshRepo   repositories.RefreshTokenRepository
	blacklistRepo repositories.BlacklistRepository
	cfg           *config.Config
}

// NewTokenService creates a new token service
func NewTokenService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	refreshRepo repositories.RefreshTokenRepository,
	blacklistRepo repositories.BlacklistRepository,
	cfg *config.Config,
) *TokenService {
	return &TokenService{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		refreshRepo:   refreshRepo,
		blacklistRepo: blacklistRepo,
		cfg:           cfg,
	}
}

// TokenPair represents an issued access + refresh token pair
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Issue signs a new access token for the user and persists a fresh refresh
// token. The permission set granted to the user's role at this moment is
// embedded in the token as a snapshot.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	permisos, err := s.roleRepo.GetPermissions(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	jti := uuid.New().String()
	ttl := s.cfg.JWT.AccessTokenTTL()

	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role.Name,
		permisos,
		jti,
		s.cfg.JWT.Secret,
		ttl,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := password.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().UTC().Add(s.cfg.JWT.RefreshTokenTTL()),
	}
	if err := s.refreshRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(ttl.Seconds()),
	}, nil
}

// Verify checks signature, issuer, audience, expiry and the revocation
// list, then re-fetches the user record so that deactivation after issuance
// is honored immediately. The permission snapshot inside the token is
// trusted until the token expires.
func (s *TokenService) Verify(ctx context.Context, accessToken string) (*domain.UserClaims, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	revoked, err := s.blacklistRepo.Exists(ctx, claims.JTI())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrRevokedToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserInactive
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	return &domain.UserClaims{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Rol:      claims.Rol,
		Permisos: claims.Permisos,
		Active:   user.Active,
	}, nil
}

// Rotate consumes a refresh token (single-use) and issues a brand-new pair
// for its owner. A token that was already consumed, is unknown or has
// expired fails with ErrInvalidToken.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	stored, err := s.refreshRepo.Consume(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}
	if !user.Active {
		return nil, nil, domain.ErrUserInactive
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Revoke blacklists the token's jti and deletes every refresh token owned
// by the user. The token is only decoded, not validated: logout has to work
// with a near-expired token too. Other devices keep their still-valid
// access tokens until natural expiry; that window is bounded by the access
// token TTL.
func (s *TokenService) Revoke(ctx context.Context, accessToken string) error {
	claims, err := jwt.DecodeUnverified(accessToken)
	if err != nil {
		return err
	}
	if claims.JTI() == "" {
		return domain.ErrInvalidToken
	}

	expiresAt := time.Now().UTC().Add(s.cfg.JWT.AccessTokenTTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time.UTC()
	}

	if err := s.blacklistRepo.Add(ctx, claims.JTI(), expiresAt); err != nil {
		return err
	}

	// Opportunistic purge alongside the write.
	if err := s.blacklistRepo.DeleteExpired(ctx); err != nil {
		return err
	}

	if claims.UserID != 0 {
		if err := s.refreshRepo.DeleteByUserID(ctx, claims.UserID); err != nil {
			return err
		}
	}
	return nil
}
