package repositories

import (
	"context"
	"time"

	"padron-electoral/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// blacklistRepository implements BlacklistRepository on GORM
type blacklistRepository struct {
	db *gorm.DB
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &blacklistRepository{db: db}
}

// Add inserts a revoked jti. Duplicate inserts are a no-op, so concurrent
// logouts with the same token never error.
func (r *blacklistRepository) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	entry := &models.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_jti"}}, DoNothing: true}).
		Create(entry).Error
}

// Exists reports whether a jti has been revoked
func (r *blacklistRepository) Exists(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_jti = ?", jti).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired purges entries whose access token has expired anyway
func (r *blacklistRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.RevokedToken{}).Error
}
