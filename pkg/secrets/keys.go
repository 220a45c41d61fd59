package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the required size for every derived key: 256 bits for AES-256.
const KeySize = 32

// Context labels isolate encryption domains. Material encrypted under one
// label can never be recovered with a key derived for another.
const (
	ContextTwoFactor     = "second-factor-secret"
	ContextAPIToken      = "api-token"
	ContextPasswordReset = "password-reset"
	ContextSession       = "session-token"
)

// saltInfo provides versioned domain separation for HKDF derivation.
const saltInfo = "authcore-secrets-v1"

// DeriveKey computes the 32-byte key for a context label from the root
// secret. Derivation is deterministic and one-way; derived keys are never
// persisted and are recomputed on demand.
func DeriveKey(rootSecret []byte, context string) ([]byte, error) {
	if len(rootSecret) == 0 {
		return nil, ErrMissingRootSecret
	}
	if context == "" {
		return nil, ErrMissingContext
	}

	hkdfReader := hkdf.New(sha256.New, rootSecret, []byte(context), []byte(saltInfo))

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return key, nil
}

// GenerateKey creates a new random 32-byte key. Useful for provisioning a
// root secret or for tests.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
