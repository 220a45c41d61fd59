package twofactor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/crypto/bcrypt"

	"github.com/virtmesh/authcore/pkg/identity"
	"github.com/virtmesh/authcore/pkg/secrets"
	"github.com/virtmesh/authcore/pkg/totp"
)

// Storage defines the persistence operations required for two-factor
// enrollment. All writes are single atomic updates.
type Storage interface {
	GetIdentityByID(ctx context.Context, id string) (*identity.Identity, error)
	UpdateTwoFactor(ctx context.Context, id string, enabled bool, encryptedSecret string, recoveryCodeHashes []string) error
	UpdateRecoveryCodes(ctx context.Context, id string, recoveryCodeHashes []string) error
}

// Enrollment holds a pending secret returned from Setup. The secret is not
// persisted or active until Enable confirms it with a valid code.
type Enrollment struct {
	Secret          string
	ProvisioningURI string
}

// Service orchestrates second-factor enrollment against the identity store.
type Service struct {
	storage           Storage
	rootSecret        []byte
	issuer            string
	recoveryCodeCount int
	logger            *slog.Logger
}

// Option is a functional option for Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRecoveryCodeCount overrides the number of recovery codes issued on
// activation.
func WithRecoveryCodeCount(count int) Option {
	return func(s *Service) {
		s.recoveryCodeCount = count
	}
}

// NewService creates a two-factor enrollment service. The root secret is
// required: every code path in this package depends on the derived
// second-factor key, so its absence is a fail-fast condition.
func NewService(storage Storage, rootSecret []byte, issuer string, opts ...Option) (*Service, error) {
	if len(rootSecret) == 0 {
		return nil, secrets.ErrMissingRootSecret
	}

	s := &Service{
		storage:           storage,
		rootSecret:        rootSecret,
		issuer:            issuer,
		recoveryCodeCount: totp.DefaultRecoveryCodeCount,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Setup re-verifies the current password and returns a fresh pending secret
// with its provisioning URI. Nothing is persisted yet.
func (s *Service) Setup(ctx context.Context, identityID, currentPassword string) (*Enrollment, error) {
	ident, err := s.storage.GetIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(ident.PasswordHash, []byte(currentPassword)); err != nil {
		return nil, ErrInvalidPassword
	}

	if ident.TwoFactorEnabled {
		return nil, ErrAlreadyEnabled
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	uri, err := totp.ProvisioningURI(totp.KeyParams{
		Secret:      secret,
		AccountName: ident.Email,
		Issuer:      s.issuer,
	})
	if err != nil {
		return nil, err
	}

	return &Enrollment{Secret: secret, ProvisioningURI: uri}, nil
}

// Enable verifies the code against the pending secret, persists the secret
// encrypted under the second-factor key together with hashed recovery codes,
// and returns the plaintext recovery codes exactly once.
func (s *Service) Enable(ctx context.Context, identityID, pendingSecret, code string) ([]string, error) {
	ident, err := s.storage.GetIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if ident.TwoFactorEnabled {
		return nil, ErrAlreadyEnabled
	}

	ok, err := totp.ValidateCode(pendingSecret, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIncorrectCode
	}

	key, err := secrets.DeriveKey(s.rootSecret, secrets.ContextTwoFactor)
	if err != nil {
		return nil, err
	}

	envelope, err := secrets.Encrypt(pendingSecret, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt second-factor secret: %w", err)
	}

	codes, err := totp.GenerateRecoveryCodes(s.recoveryCodeCount)
	if err != nil {
		return nil, err
	}

	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = totp.HashRecoveryCode(c)
	}

	if err := s.storage.UpdateTwoFactor(ctx, ident.ID, true, envelope, hashes); err != nil {
		return nil, fmt.Errorf("failed to persist two-factor state: %w", err)
	}

	return codes, nil
}

// Disable accepts either a live TOTP code or an unused recovery code and
// clears the secret, the enabled flag, and any remaining recovery codes.
func (s *Service) Disable(ctx context.Context, identityID, code string) error {
	ident, err := s.storage.GetIdentityByID(ctx, identityID)
	if err != nil {
		return err
	}

	if !ident.TwoFactorEnabled {
		return ErrNotEnabled
	}

	if err := s.VerifyCode(ctx, ident, code); err != nil {
		if matchRecoveryCode(ident.RecoveryCodeHashes, code) < 0 {
			return ErrIncorrectCode
		}
	}

	if err := s.storage.UpdateTwoFactor(ctx, ident.ID, false, "", nil); err != nil {
		return fmt.Errorf("failed to clear two-factor state: %w", err)
	}

	return nil
}

// RedeemRecovery consumes a recovery code, removing it from the stored set so
// it cannot be reused. It serves as an alternate second-factor path when the
// authenticator is unavailable.
func (s *Service) RedeemRecovery(ctx context.Context, identityID, code string) error {
	ident, err := s.storage.GetIdentityByID(ctx, identityID)
	if err != nil {
		return err
	}

	if !ident.TwoFactorEnabled {
		return ErrNotEnabled
	}

	idx := matchRecoveryCode(ident.RecoveryCodeHashes, code)
	if idx < 0 {
		return ErrIncorrectCode
	}

	remaining := slices.Delete(slices.Clone(ident.RecoveryCodeHashes), idx, idx+1)
	if err := s.storage.UpdateRecoveryCodes(ctx, ident.ID, remaining); err != nil {
		return fmt.Errorf("failed to consume recovery code: %w", err)
	}

	return nil
}

// VerifyCode decrypts the identity's stored secret and checks a live TOTP
// code against it. Used by the credential verifier's second-factor step.
func (s *Service) VerifyCode(ctx context.Context, ident *identity.Identity, code string) error {
	if !ident.TwoFactorEnabled || ident.TwoFactorSecret == "" {
		return ErrNotEnabled
	}

	key, err := secrets.DeriveKey(s.rootSecret, secrets.ContextTwoFactor)
	if err != nil {
		return err
	}

	secret, err := secrets.Decrypt(ident.TwoFactorSecret, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to decrypt second-factor secret",
			slog.String("identity_id", ident.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to decrypt second-factor secret: %w", err)
	}

	ok, err := totp.ValidateCode(secret, code)
	if err != nil || !ok {
		return ErrIncorrectCode
	}

	return nil
}

// matchRecoveryCode returns the index of the hash matching the candidate
// code, or -1. Every stored hash is checked so comparison time does not
// depend on the match position.
func matchRecoveryCode(hashes []string, code string) int {
	found := -1
	for i, h := range hashes {
		if totp.VerifyRecoveryCode(code, h) && found < 0 {
			found = i
		}
	}
	return found
}
