package totp

import "errors"

var (
	ErrMissingSecret                = errors.New("missing secret")
	ErrInvalidSecret                = errors.New("invalid secret")
	ErrMissingAccountName           = errors.New("missing account name")
	ErrMissingIssuer                = errors.New("missing issuer")
	ErrInvalidCodeFormat            = errors.New("invalid one-time code format")
	ErrSecretGenerationFailed       = errors.New("failed to generate secret key")
	ErrInvalidRecoveryCodeCount     = errors.New("recovery code count must be greater than 0")
	ErrRecoveryCodeGenerationFailed = errors.New("failed to generate recovery code")
	ErrMissingProvisioningURI       = errors.New("missing provisioning URI")
	ErrQRCodeGenerationFailed       = errors.New("failed to generate QR code")
)
