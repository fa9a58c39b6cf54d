package repositories

import (
	"context"
	"errors"

	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/core/domain"

	"gorm.io/gorm"
)

// roleRepository implements RoleRepository on GORM
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// List returns all active roles
func (r *roleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// GetByName gets an active role by its unique name
func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ? AND active = ?", name, true).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetPermissions resolves the permission codes granted to a role
func (r *roleRepository) GetPermissions(ctx context.Context, roleID uint) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Permission{}).
		Joins("JOIN roles_permisos ON roles_permisos.permission_id = permisos.id").
		Where("roles_permisos.role_id = ?", roleID).
		Order("permisos.code").
		Pluck("permisos.code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}
