package session

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidSession  = errors.New("invalid session token")
	ErrSessionExpired  = errors.New("session expired")
	ErrEmptyName       = errors.New("name must not be empty")
)
