package task

import "errors"

var (
	ErrMissingName       = errors.New("task name is required")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime       = errors.New("time must be HH:MM")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidTransition = errors.New("task status cannot change this way")
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotLinked         = errors.New("not linked to this patient")
	ErrForbidden         = errors.New("forbidden - insufficient permissions")
)
