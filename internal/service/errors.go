package service

import "errors"

// Domain errors surfaced to the HTTP layer.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotFound           = errors.New("task not found")
	ErrValidation         = errors.New("validation failed")
)
