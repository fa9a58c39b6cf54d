package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents the usuarios table. Users are never hard-deleted; the
// Active flag soft-disables an account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"fullName"`
	Email        string    `gorm:"size:100" json:"email"`
	RoleID       uint      `gorm:"index;not null" json:"-"`
	Role         Role      `gorm:"foreignKey:RoleID" json:"-"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "usuarios"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role.Name,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// Role represents the roles table. Roles are deactivated, never deleted,
// so user references stay valid.
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission represents the permisos table. Read-mostly reference data,
// codes are dot-namespaced (e.g. "padron.view").
type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Module      string `gorm:"size:50;index" json:"module"`
}

func (Permission) TableName() string {
	return "permisos"
}

// RolePermission joins roles to permissions. The composite unique index
// prevents duplicate grants.
type RolePermission struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RoleID       uint `gorm:"uniqueIndex:idx_role_permission;not null" json:"roleId"`
	PermissionID uint `gorm:"uniqueIndex:idx_role_permission;not null" json:"permissionId"`
}

func (RolePermission) TableName() string {
	return "roles_permisos"
}

// RefreshToken represents the refresh_tokens table. Tokens are opaque
// random strings, single-use: consumption deletes the row.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;size:128;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().UTC().After(rt.ExpiresAt)
}

// RevokedToken represents the token_blacklist table. An entry keeps a jti
// revoked until the access token would have expired anyway, after which the
// sweep removes it.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"column:token_jti;uniqueIndex;size:64;not null" json:"jti"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "token_blacklist"
}

// AutoMigrate creates or updates all credential store tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&Permission{},
		&RolePermission{},
		&User{},
		&RefreshToken{},
		&RevokedToken{},
	)
}
