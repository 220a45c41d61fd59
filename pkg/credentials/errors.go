package credentials

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrIncorrectTwoFactorCode = errors.New("incorrect two-factor code")
)

// TooManyAttemptsError is returned while the lockout cooldown is active. It
// carries the remaining cooldown so callers can tell the user when to retry.
type TooManyAttemptsError struct {
	RetryAfter time.Duration
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %d minute(s)", e.RetryAfterMinutes())
}

// RetryAfterMinutes returns the remaining cooldown rounded up to whole
// minutes, never less than one.
func (e *TooManyAttemptsError) RetryAfterMinutes() int {
	minutes := int(math.Ceil(e.RetryAfter.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
