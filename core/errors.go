package core

import (
	"errors"
	"fmt"
)

// Categories errors
var (
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryInvalidArgs   = errors.New("category invalid args")
)

// Tasks errors
var (
	ErrTaskAlreadyExists = errors.New("task already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskInvalidArgs   = errors.New("task invalid args")
)

// Subtasks errors
var (
	ErrSubTaskAlreadyExists = errors.New("subtask already exists")
	ErrSubTaskNotFound      = errors.New("subtask not found")
	ErrSubTaskInvalidArgs   = errors.New("subtask invalid args")
)

// Users and auth errors
var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInvalidArgs   = errors.New("user invalid args")
	ErrUnauthorized      = errors.New("authentication required")
	ErrInvalidToken      = errors.New("token is invalid or expired")
	ErrPermissionDenied  = errors.New("permission denied")
)

// invalid wraps one of the *InvalidArgs sentinels with a reason the caller can show.
func invalid(kind error, reason string) error {
	return fmt.Errorf("%w: %s", kind, reason)
}
