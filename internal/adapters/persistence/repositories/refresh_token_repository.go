package repositories

import (
	"context"
	"errors"
	"time"

	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// refreshTokenRepository implements RefreshTokenRepository on GORM
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create stores a new refresh token
func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// Consume looks up a refresh token, deletes it and returns it. The row is
// locked FOR UPDATE so that only one of two concurrent consumers wins; the
// loser sees ErrInvalidToken. An expired token is also deleted but reported
// invalid.
func (r *refreshTokenRepository) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidToken
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.RefreshToken{}, stored.ID).Error; err != nil {
			return err
		}

		if stored.IsExpired() {
			return domain.ErrInvalidToken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteByUserID removes every refresh token owned by a user (logout)
func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RefreshToken{}).Error
}

// DeleteExpired removes expired tokens (cleanup job)
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.RefreshToken{}).Error
}
