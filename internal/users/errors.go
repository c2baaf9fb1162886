package users

import "errors"

var (
	ErrMissingName     = errors.New("name is required")
	ErrMissingEmail    = errors.New("a valid email is required")
	ErrMissingPassword = errors.New("password is required")
	ErrMissingRole     = errors.New("role is required")
	ErrRoleNotAllowed  = errors.New("role cannot be chosen at registration")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbidden       = errors.New("forbidden - insufficient permissions")
)
