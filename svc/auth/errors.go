package auth

import "errors"

var (
	ErrNoSession      = errors.New("auth: no session cookie")
	ErrInvalidSession = errors.New("auth: invalid session token")
	ErrWeakSecret     = errors.New("auth: JWT secret must be at least 32 bytes")
)
