package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/virtmesh/authcore/pkg/identity"
)

const (
	// MaxFailedAttempts is the number of consecutive failures before the
	// lockout cooldown applies.
	MaxFailedAttempts = 5
	// LockoutCooldown is the window during which further attempts are
	// refused after too many failures.
	LockoutCooldown = 60 * time.Second
)

// Storage defines the persistence operations required for credential
// verification. Lockout counter writes are single atomic updates: a request
// cancelled mid-verification never leaves them half-applied.
type Storage interface {
	GetIdentityByEmail(ctx context.Context, email string) (*identity.Identity, error)
	UpdateLoginAttempts(ctx context.Context, id string, failedAttempts int, lastFailedAt time.Time) error
}

// SecondFactorVerifier checks a live TOTP code for an identity.
// Satisfied by *twofactor.Service.
type SecondFactorVerifier interface {
	VerifyCode(ctx context.Context, ident *identity.Identity, code string) error
}

// Status tags the outcome of a successful Authenticate call.
type Status int

const (
	// StatusOK means the identity is fully authenticated.
	StatusOK Status = iota
	// StatusSecondFactorRequired means the password was correct but the
	// account has two-factor enabled and no code was supplied. Callers
	// prompt for a code and retry.
	StatusSecondFactorRequired
)

// Result is the tagged outcome of an authentication attempt. Identity is set
// only when Status is StatusOK.
type Result struct {
	Status   Status
	Identity *identity.Identity
}

// Verifier runs the credential state machine against the identity store.
type Verifier struct {
	storage    Storage
	twoFactor  SecondFactorVerifier
	logger     *slog.Logger
	now        func() time.Time
	maxretries int
	cooldown   time.Duration
}

// Option is a functional option for Verifier.
type Option func(*Verifier)

// WithLogger sets a custom logger for the verifier.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithClock overrides the time source, used by lockout tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier creates a credential verifier. The second-factor verifier is
// consulted only for identities with two-factor enabled.
func NewVerifier(storage Storage, twoFactor SecondFactorVerifier, opts ...Option) *Verifier {
	v := &Verifier{
		storage:    storage,
		twoFactor:  twoFactor,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		maxretries: MaxFailedAttempts,
		cooldown:   LockoutCooldown,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Authenticate validates the supplied credentials. totpCode may be empty;
// when the identity requires a second factor the result carries
// StatusSecondFactorRequired instead of an error so callers can prompt for
// the code. Lockout counters reset only on a fully successful
// authentication, second factor included.
func (v *Verifier) Authenticate(ctx context.Context, email, password, totpCode string) (Result, error) {
	ident, err := v.storage.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrIdentityNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("failed to look up identity: %w", err)
	}

	if ident.FailedAttempts >= v.maxretries {
		if elapsed := v.now().Sub(ident.LastFailedAt); elapsed < v.cooldown {
			return Result{}, &TooManyAttemptsError{RetryAfter: v.cooldown - elapsed}
		}
	}

	if err := bcrypt.CompareHashAndPassword(ident.PasswordHash, []byte(password)); err != nil {
		v.recordFailure(ctx, ident)
		return Result{}, ErrInvalidCredentials
	}

	if !ident.Active {
		return Result{}, ErrAccountDisabled
	}

	if ident.TwoFactorEnabled {
		if totpCode == "" {
			return Result{Status: StatusSecondFactorRequired}, nil
		}
		if err := v.twoFactor.VerifyCode(ctx, ident, totpCode); err != nil {
			v.recordFailure(ctx, ident)
			return Result{}, errors.Join(ErrIncorrectTwoFactorCode, err)
		}
	}

	if ident.FailedAttempts > 0 || !ident.LastFailedAt.IsZero() {
		if err := v.storage.UpdateLoginAttempts(ctx, ident.ID, 0, time.Time{}); err != nil {
			v.logger.ErrorContext(ctx, "failed to reset lockout counters",
				slog.String("identity_id", ident.ID),
				slog.Any("error", err),
			)
		}
		ident.FailedAttempts = 0
		ident.LastFailedAt = time.Time{}
	}

	return Result{Status: StatusOK, Identity: ident}, nil
}

// recordFailure increments the lockout counter best-effort. Concurrent
// failures may race on the read-modify-write; lockout is not a hard security
// boundary against a distributed brute-force attempt.
func (v *Verifier) recordFailure(ctx context.Context, ident *identity.Identity) {
	if err := v.storage.UpdateLoginAttempts(ctx, ident.ID, ident.FailedAttempts+1, v.now()); err != nil {
		v.logger.ErrorContext(ctx, "failed to record login failure",
			slog.String("identity_id", ident.ID),
			slog.Any("error", err),
		)
	}
}
