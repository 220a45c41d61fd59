package secrets

import "errors"

var (
	// Key derivation errors
	ErrMissingRootSecret   = errors.New("missing encryption key: root secret is empty")
	ErrMissingContext      = errors.New("missing key derivation context label")
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	ErrInvalidKeyLength    = errors.New("invalid key length: must be 32 bytes")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrMalformedEnvelope = errors.New("malformed ciphertext envelope")
	ErrInvalidPadding    = errors.New("invalid padding in decrypted payload")
)
