package repositories

import (
	"context"
	"time"

	"padron-electoral/internal/adapters/persistence/models"
)

// UserRepository defines user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id uint, active bool) (*models.User, error)
	ResetPassword(ctx context.Context, id uint, passwordHash string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RoleRepository defines role and permission lookups
type RoleRepository interface {
	List(ctx context.Context) ([]*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	GetPermissions(ctx context.Context, roleID uint) ([]string, error)
}

// RefreshTokenRepository defines refresh token persistence operations.
// Consume is atomic: lookup, expiry check and delete happen in one
// transaction so that two concurrent refresh calls cannot both win.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// BlacklistRepository defines the access token revocation list.
type BlacklistRepository interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Exists(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context) error
}
