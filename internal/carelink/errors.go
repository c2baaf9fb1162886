package carelink

import "errors"

var (
	ErrMissingEmail  = errors.New("email is required")
	ErrUserNotFound  = errors.New("no user found with this email")
	ErrRoleMismatch  = errors.New("the roles of both users do not allow this link")
	ErrAlreadyLinked = errors.New("already linked to this user")
	ErrSelfLink      = errors.New("cannot link a user to themselves")
	ErrLinkNotFound  = errors.New("link not found")
	ErrForbidden     = errors.New("forbidden - not part of this link")
)
