package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/virtmesh/authcore/pkg/identity"
	"github.com/virtmesh/authcore/pkg/secrets"
)

// DefaultLifetime is the session validity window when none is configured.
const DefaultLifetime = 30 * 24 * time.Hour

// Storage defines the persistence operations required for session issuance
// and resolution.
type Storage interface {
	GetIdentityByID(ctx context.Context, id string) (*identity.Identity, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id, name, email string) error
}

// Issuer builds, signs, refreshes, and resolves session claims.
type Issuer struct {
	storage    Storage
	signingKey []byte
	lifetime   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option is a functional option for Issuer.
type Option func(*Issuer)

// WithLifetime overrides the default 30-day session lifetime.
func WithLifetime(lifetime time.Duration) Option {
	return func(i *Issuer) {
		if lifetime > 0 {
			i.lifetime = lifetime
		}
	}
}

// WithLogger sets a custom logger for the issuer.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Issuer) {
		i.logger = logger
	}
}

// WithClock overrides the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates a session issuer. The signing key is derived from the
// root secret under the session context label, so an empty root secret is a
// fail-fast condition.
func NewIssuer(storage Storage, rootSecret []byte, opts ...Option) (*Issuer, error) {
	signingKey, err := secrets.DeriveKey(rootSecret, secrets.ContextSession)
	if err != nil {
		return nil, err
	}

	i := &Issuer{
		storage:    storage,
		signingKey: signingKey,
		lifetime:   DefaultLifetime,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// Issue builds a claim set for a verified identity and stamps the identity's
// last-login timestamp.
func (i *Issuer) Issue(ctx context.Context, ident *identity.Identity) (*Claims, error) {
	now := i.now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
		Name:  ident.Name,
		Email: ident.Email,
		Role:  ident.Role.String(),
	}

	if err := i.storage.UpdateLastLogin(ctx, ident.ID, now); err != nil {
		i.logger.ErrorContext(ctx, "failed to stamp last login",
			slog.String("identity_id", ident.ID),
			slog.Any("error", err),
		)
	}

	return claims, nil
}

// Sign serializes claims as an HS256 JWT.
func (i *Issuer) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session claims: %w", err)
	}
	return signed, nil
}

// Parse verifies a signed session token and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Refresh applies a partial profile update to both the backing identity and
// the claim set. An update that would produce an empty name is rejected.
func (i *Issuer) Refresh(ctx context.Context, claims *Claims, update ProfileUpdate) (*Claims, error) {
	name := claims.Name
	if update.Name != nil {
		if *update.Name == "" {
			return nil, ErrEmptyName
		}
		name = *update.Name
	}

	email := claims.Email
	if update.Email != nil && *update.Email != "" {
		email = *update.Email
	}

	if err := i.storage.UpdateProfile(ctx, claims.UserID(), name, email); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	refreshed := *claims
	refreshed.Name = name
	refreshed.Email = email
	return &refreshed, nil
}

// Resolve re-reads the backing identity for a claim set. It returns
// ErrUnauthenticated when the identity is missing, inactive, or fails the
// legacy identifier guard.
func (i *Issuer) Resolve(ctx context.Context, claims *Claims) (*identity.Identity, error) {
	ident, err := i.storage.GetIdentityByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, identity.ErrIdentityNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	if !ident.Active || ident.HasLegacyID() {
		return nil, ErrUnauthenticated
	}

	return ident, nil
}
