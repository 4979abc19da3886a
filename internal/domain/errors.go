package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalError      = errors.New("internal error")
	ErrUserNotFound       = errors.New("user not found")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidStatus      = errors.New("invalid card status")
	ErrAlreadyMember      = errors.New("user is already a member")
	ErrNotAMember         = errors.New("user is not a member")
	ErrOwnerRemoval       = errors.New("the owner cannot be removed")
	ErrAssigneeNotMember  = errors.New("assignee is not a workspace member")
	ErrContentRequired    = errors.New("content is required")
	ErrContentTooLong     = errors.New("content exceeds maximum length")
)

// Validation constants
const (
	MaxTitleLength    = 255
	MinPasswordLength = 8
)
