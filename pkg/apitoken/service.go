package apitoken

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/virtmesh/authcore/pkg/identity"
	"github.com/virtmesh/authcore/pkg/scopes"
	"github.com/virtmesh/authcore/pkg/secrets"
)

// Record is the persisted half of an issued token. The opaque token string
// itself is never stored; verification matches the decrypted payload against
// this record.
type Record struct {
	ID        string
	OwnerID   string
	Name      string
	Scopes    []string
	ExpiresAt *time.Time // nil means the token never expires
	CreatedAt time.Time
}

// Storage defines the persistence operations required for token issuance
// and verification. Token deletion is revocation.
type Storage interface {
	CreateToken(ctx context.Context, record *Record) error
	GetToken(ctx context.Context, tokenID, ownerID string) (*Record, error)
	DeleteToken(ctx context.Context, tokenID, ownerID string) error
	GetIdentityByID(ctx context.Context, id string) (*identity.Identity, error)
}

// Service issues and verifies opaque API tokens.
type Service struct {
	storage Storage
	key     []byte
	logger  *slog.Logger
	now     func() time.Time
}

// Option is a functional option for Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an API token service. The encryption key is derived
// from the root secret under the api-token context label; an empty root
// secret is a fail-fast condition.
func NewService(storage Storage, rootSecret []byte, opts ...Option) (*Service, error) {
	key, err := secrets.DeriveKey(rootSecret, secrets.ContextAPIToken)
	if err != nil {
		return nil, err
	}

	s := &Service{
		storage: storage,
		key:     key,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue creates a token record and returns the encrypted opaque token. The
// returned string is the only copy of the usable token.
func (s *Service) Issue(ctx context.Context, ownerID, name string, tokenScopes []string, expiresAt *time.Time) (string, error) {
	if ownerID == "" {
		return "", ErrInvalidToken
	}

	normalized := scopes.Normalize(tokenScopes)
	if len(normalized) == 0 {
		return "", ErrInvalidAuthorizationType
	}

	record := &Record{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Scopes:    normalized,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}

	if err := s.storage.CreateToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to persist token record: %w", err)
	}

	body, err := encodePayload(payload{
		OwnerID: ownerID,
		Name:    name,
		TokenID: record.ID,
		Scopes:  normalized,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token payload: %w", err)
	}

	opaque, err := secrets.Encrypt(string(body), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token payload: %w", err)
	}

	return opaque, nil
}

// Verify decrypts an opaque token, checks its scopes and backing record, and
// returns the owner identity. requireAdmin additionally demands the admin
// role on the owner.
func (s *Service) Verify(ctx context.Context, opaqueToken, requiredScope string, requireAdmin bool) (*identity.Identity, []string, error) {
	if opaqueToken == "" {
		return nil, nil, ErrMissingAPIKey
	}

	body, err := secrets.Decrypt(opaqueToken, s.key)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	p, err := decodePayload([]byte(body))
	if err != nil {
		return nil, nil, err
	}

	if !scopes.Has(p.Scopes, requiredScope) {
		return nil, nil, ErrInvalidAuthorizationType
	}

	record, err := s.storage.GetToken(ctx, p.TokenID, p.OwnerID)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to load token record: %w", err)
	}

	if record.ExpiresAt != nil && record.ExpiresAt.Before(s.now()) {
		return nil, nil, ErrTokenExpired
	}

	ident, err := s.storage.GetIdentityByID(ctx, p.OwnerID)
	if err != nil {
		if errors.Is(err, identity.ErrIdentityNotFound) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("failed to load token owner: %w", err)
	}

	if requireAdmin && !ident.Role.AtLeast(identity.RoleAdmin) {
		return nil, nil, ErrUnauthorized
	}

	return ident, p.Scopes, nil
}

// Revoke deletes a token record, invalidating every copy of the opaque
// token issued for it.
func (s *Service) Revoke(ctx context.Context, tokenID, ownerID string) error {
	if err := s.storage.DeleteToken(ctx, tokenID, ownerID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
