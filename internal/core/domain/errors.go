package domain

import "errors"

// Authentication errors. Login failures share ErrInvalidCredentials so the
// response never discloses whether the username or the password was wrong.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrRevokedToken       = errors.New("token revoked")
)

// Resource errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate entry")
	ErrValidation   = errors.New("invalid input")
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")
)

// Infrastructure errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
)
