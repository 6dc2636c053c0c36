package domain

import "errors"

var (
	// common errors
	ErrNotFound = errors.New("not found")

	// request validation
	ErrValidation = errors.New("validation error")

	// auth-specific errors
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)
