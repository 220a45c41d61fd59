package twofactor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/virtmesh/authcore/pkg/identity"
	"github.com/virtmesh/authcore/pkg/secrets"
	"github.com/virtmesh/authcore/pkg/totp"
)

const testPassword = "correct horse battery staple"

func testRootSecret(t *testing.T) []byte {
	t.Helper()
	root, err := secrets.GenerateKey()
	require.NoError(t, err)
	return root
}

func testIdentity(t *testing.T) *identity.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &identity.Identity{
		ID:           "3f1f8dd0-9f6b-4b44-a6f5-7f8f6f9f1a2b",
		Name:         "Alice",
		Email:        "a@x.com",
		Role:         identity.RoleUser,
		Active:       true,
		PasswordHash: hash,
	}
}

// enrolledIdentity returns an identity with two-factor active for the given
// plaintext secret, plus the service sharing the same root secret.
func enrolledIdentity(t *testing.T, storage *MockStorage, secret string, recoveryCodes []string) (*Service, *identity.Identity) {
	t.Helper()
	root := testRootSecret(t)

	svc, err := NewService(storage, root, "virtmesh")
	require.NoError(t, err)

	key, err := secrets.DeriveKey(root, secrets.ContextTwoFactor)
	require.NoError(t, err)
	envelope, err := secrets.Encrypt(secret, key)
	require.NoError(t, err)

	ident := testIdentity(t)
	ident.TwoFactorEnabled = true
	ident.TwoFactorSecret = envelope
	for _, code := range recoveryCodes {
		ident.RecoveryCodeHashes = append(ident.RecoveryCodeHashes, totp.HashRecoveryCode(code))
	}
	return svc, ident
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("requires root secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewService(&MockStorage{}, nil, "virtmesh")
		require.ErrorIs(t, err, secrets.ErrMissingRootSecret)
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()
		svc, err := NewService(&MockStorage{}, testRootSecret(t), "virtmesh", WithRecoveryCodeCount(5))
		require.NoError(t, err)
		assert.Equal(t, 5, svc.recoveryCodeCount)
	})
}

func TestSetup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns pending secret and uri", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		ident := testIdentity(t)
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		svc, err := NewService(storage, testRootSecret(t), "virtmesh")
		require.NoError(t, err)

		enrollment, err := svc.Setup(ctx, ident.ID, testPassword)
		require.NoError(t, err)
		assert.NotEmpty(t, enrollment.Secret)
		assert.True(t, strings.HasPrefix(enrollment.ProvisioningURI, "otpauth://totp/"))
		assert.Contains(t, enrollment.ProvisioningURI, "a%40x.com")

		// Setup must not persist anything.
		storage.AssertNotCalled(t, "UpdateTwoFactor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		ident := testIdentity(t)
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		svc, err := NewService(storage, testRootSecret(t), "virtmesh")
		require.NoError(t, err)

		_, err = svc.Setup(ctx, ident.ID, "wrong password")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("rejects when already enabled", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		ident := testIdentity(t)
		ident.TwoFactorEnabled = true
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		svc, err := NewService(storage, testRootSecret(t), "virtmesh")
		require.NoError(t, err)

		_, err = svc.Setup(ctx, ident.ID, testPassword)
		require.ErrorIs(t, err, ErrAlreadyEnabled)
	})
}

func TestEnable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persists encrypted secret and returns recovery codes", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		ident := testIdentity(t)
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		root := testRootSecret(t)
		svc, err := NewService(storage, root, "virtmesh")
		require.NoError(t, err)

		pending, err := totp.GenerateSecretKey()
		require.NoError(t, err)
		code, err := totp.GenerateCode(pending)
		require.NoError(t, err)

		var storedEnvelope string
		var storedHashes []string
		storage.On("UpdateTwoFactor", ctx, ident.ID, true, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				storedEnvelope = args.String(3)
				storedHashes = args.Get(4).([]string)
			}).
			Return(nil)

		codes, err := svc.Enable(ctx, ident.ID, pending, code)
		require.NoError(t, err)
		require.Len(t, codes, totp.DefaultRecoveryCodeCount)
		require.Len(t, storedHashes, totp.DefaultRecoveryCodeCount)

		// Only hashes are persisted.
		for i, c := range codes {
			assert.Equal(t, totp.HashRecoveryCode(c), storedHashes[i])
		}

		// Secret is stored encrypted and recoverable under the derived key.
		assert.NotContains(t, storedEnvelope, pending)
		key, err := secrets.DeriveKey(root, secrets.ContextTwoFactor)
		require.NoError(t, err)
		decrypted, err := secrets.Decrypt(storedEnvelope, key)
		require.NoError(t, err)
		assert.Equal(t, pending, decrypted)
	})

	t.Run("rejects incorrect code", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		ident := testIdentity(t)
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		svc, err := NewService(storage, testRootSecret(t), "virtmesh")
		require.NoError(t, err)

		pending, err := totp.GenerateSecretKey()
		require.NoError(t, err)

		_, err = svc.Enable(ctx, ident.ID, pending, "000000")
		require.ErrorIs(t, err, ErrIncorrectCode)
		storage.AssertNotCalled(t, "UpdateTwoFactor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerifyCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	t.Run("accepts current window code", func(t *testing.T) {
		t.Parallel()
		svc, ident := enrolledIdentity(t, &MockStorage{}, secret, nil)

		code, err := totp.GenerateCode(secret)
		require.NoError(t, err)
		require.NoError(t, svc.VerifyCode(ctx, ident, code))
	})

	t.Run("rejects stale code", func(t *testing.T) {
		t.Parallel()
		svc, ident := enrolledIdentity(t, &MockStorage{}, secret, nil)
		require.ErrorIs(t, svc.VerifyCode(ctx, ident, "000000"), ErrIncorrectCode)
	})

	t.Run("fails when not enabled", func(t *testing.T) {
		t.Parallel()
		svc, err := NewService(&MockStorage{}, testRootSecret(t), "virtmesh")
		require.NoError(t, err)
		require.ErrorIs(t, svc.VerifyCode(ctx, testIdentity(t), "123456"), ErrNotEnabled)
	})

	t.Run("undecryptable secret surfaces as internal failure", func(t *testing.T) {
		t.Parallel()
		svc, ident := enrolledIdentity(t, &MockStorage{}, secret, nil)
		ident.TwoFactorSecret = "not-an-envelope"

		err := svc.VerifyCode(ctx, ident, "123456")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrIncorrectCode)
	})
}

func TestDisable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	t.Run("accepts live code", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		svc, ident := enrolledIdentity(t, storage, secret, nil)
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)
		storage.On("UpdateTwoFactor", ctx, ident.ID, false, "", []string(nil)).Return(nil)

		code, err := totp.GenerateCode(secret)
		require.NoError(t, err)
		require.NoError(t, svc.Disable(ctx, ident.ID, code))
		storage.AssertExpectations(t)
	})

	t.Run("accepts unused recovery code", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		svc, ident := enrolledIdentity(t, storage, secret, []string{"AABBCCDDEEFF0011"})
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)
		storage.On("UpdateTwoFactor", ctx, ident.ID, false, "", []string(nil)).Return(nil)

		require.NoError(t, svc.Disable(ctx, ident.ID, "AABBCCDDEEFF0011"))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		svc, ident := enrolledIdentity(t, storage, secret, []string{"AABBCCDDEEFF0011"})
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		require.ErrorIs(t, svc.Disable(ctx, ident.ID, "totally wrong"), ErrIncorrectCode)
		storage.AssertNotCalled(t, "UpdateTwoFactor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fails when not enabled", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		ident := testIdentity(t)
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		svc, err := NewService(storage, testRootSecret(t), "virtmesh")
		require.NoError(t, err)
		require.ErrorIs(t, svc.Disable(ctx, ident.ID, "123456"), ErrNotEnabled)
	})
}

func TestRedeemRecovery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	t.Run("first redemption succeeds and removes the code", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		svc, ident := enrolledIdentity(t, storage, secret, []string{"AAAA111122223333", "BBBB444455556666"})
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		var remaining []string
		storage.On("UpdateRecoveryCodes", ctx, ident.ID, mock.Anything).
			Run(func(args mock.Arguments) {
				remaining = args.Get(2).([]string)
			}).
			Return(nil)

		require.NoError(t, svc.RedeemRecovery(ctx, ident.ID, "AAAA111122223333"))
		require.Len(t, remaining, 1)
		assert.Equal(t, totp.HashRecoveryCode("BBBB444455556666"), remaining[0])

		// Second redemption of the same code fails once the store reflects
		// the removal.
		ident.RecoveryCodeHashes = remaining
		require.ErrorIs(t, svc.RedeemRecovery(ctx, ident.ID, "AAAA111122223333"), ErrIncorrectCode)
	})

	t.Run("unknown code rejected", func(t *testing.T) {
		t.Parallel()
		storage := &MockStorage{}
		svc, ident := enrolledIdentity(t, storage, secret, []string{"AAAA111122223333"})
		storage.On("GetIdentityByID", ctx, ident.ID).Return(ident, nil)

		require.ErrorIs(t, svc.RedeemRecovery(ctx, ident.ID, "CCCC777788889999"), ErrIncorrectCode)
	})
}
