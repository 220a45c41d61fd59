package identity

import "errors"

var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrUnknownRole      = errors.New("unknown role")
)
