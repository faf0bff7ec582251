package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotRegistered = errors.New("email not registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyApplied     = errors.New("already applied to this listing")
	ErrInvalidResume      = errors.New("invalid resume file")
	ErrUpstream           = errors.New("upstream unavailable")
	ErrNotConfigured      = errors.New("feature not configured")
)
