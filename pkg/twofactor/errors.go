package twofactor

import "errors"

var (
	ErrAlreadyEnabled  = errors.New("two-factor authentication already enabled")
	ErrNotEnabled      = errors.New("two-factor authentication not enabled")
	ErrIncorrectCode   = errors.New("incorrect two-factor code")
	ErrInvalidPassword = errors.New("invalid password")
)
