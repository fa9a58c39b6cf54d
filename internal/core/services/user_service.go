package services

import (
	"context"
	"fmt"
	"strings"

	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/adapters/persistence/repositories"
	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/pkg/pagination"
	"padron-electoral/internal/pkg/password"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// UserService handles user administration. Role enforcement happens at the
// route layer; these methods still re-validate structural invariants (role
// exists, field lengths, uniqueness).
type UserService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// CreateUserInput represents create user input
type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UpdateUserInput represents partial update input; nil fields are left
// unchanged.
type UpdateUserInput struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// UpdateProfileInput represents self-service profile update input
type UpdateProfileInput struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

// CreateUser creates a new user with a hashed password
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < minUsernameLen {
		return nil, fmt.Errorf("%w: username must be at least %d characters", domain.ErrValidation, minUsernameLen)
	}
	if len(input.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrValidation)
	}

	roleName := input.Role
	if roleName == "" {
		roleName = domain.RoleEncargado
	}
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateKey
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		RoleID:       role.ID,
		Role:         *role,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// UpdateUser applies a partial update to a user
func (s *UserService) UpdateUser(ctx context.Context, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, fmt.Errorf("%w: full name cannot be empty", domain.ErrValidation)
		}
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		role, err := s.roleRepo.GetByName(ctx, *input.Role)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = *role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ToggleStatus activates or deactivates a user. Deactivation takes effect
// on the next token verification, without waiting for token expiry.
func (s *UserService) ToggleStatus(ctx context.Context, id uint, active bool) (*models.UserResponse, error) {
	user, err := s.userRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ResetPassword replaces a user's password (admin action)
func (s *UserService) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.ResetPassword(ctx, id, hash)
}

// ChangePassword replaces the caller's own password after checking the
// current one.
func (s *UserService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !password.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.ResetPassword(ctx, id, hash)
}

// GetUser returns one user by id
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile applies a self-service profile update
func (s *UserService) UpdateProfile(ctx context.Context, id uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	return s.UpdateUser(ctx, id, &UpdateUserInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
}

// ListUsers returns one page of users, newest first, plus the total count
func (s *UserService) ListUsers(ctx context.Context, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, total, nil
}

// ListRoles returns all active roles
func (s *UserService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.roleRepo.List(ctx)
}
