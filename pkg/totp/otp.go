package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// Digits is the number of digits in generated codes.
	Digits = 6
	// Period is the code validity window in seconds (RFC 6238 standard).
	Period = 30
	// DriftSteps is the number of adjacent time steps accepted on either
	// side of the current one, tolerating client clock drift.
	DriftSteps = 1
	// secretSize is 160 bits, the RFC 4226 recommendation.
	secretSize = 20
)

var (
	// secretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7,
	// optional padding.
	secretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")
	codeRegex      = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, Digits))

	base32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// KeyParams describes a provisioning URI for authenticator apps.
type KeyParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier such as an email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
}

// Validate ensures all required provisioning parameters are present.
func (p KeyParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !secretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// GenerateSecretKey generates a fresh random 160-bit secret and returns its
// Base32 representation.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrSecretGenerationFailed, err)
	}
	return base32NoPadding.EncodeToString(secret), nil
}

// ProvisioningURI builds an otpauth:// URI following the Key Uri Format
// understood by authenticator apps:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func ProvisioningURI(params KeyParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", Digits))
	query.Set("period", fmt.Sprintf("%d", Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// ValidateCode checks a user-supplied code against the secret, accepting
// codes from the current time step and DriftSteps adjacent steps.
func ValidateCode(secret, code string) (bool, error) {
	return ValidateCodeAt(secret, code, time.Now())
}

// ValidateCodeAt checks a code against the drift window around the given time.
func ValidateCodeAt(secret, code string, t time.Time) (bool, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, ErrInvalidCodeFormat
	}

	counter := t.Unix() / Period
	for i := -DriftSteps; i <= DriftSteps; i++ {
		if formatCode(hotp(key, counter+int64(i))) == code {
			return true, nil
		}
	}

	return false, nil
}

// GenerateCode produces the code for the current time step.
func GenerateCode(secret string) (string, error) {
	return GenerateCodeAt(secret, time.Now())
}

// GenerateCodeAt produces the code for the time step containing t.
// Useful for tests and for generating codes for specific moments.
func GenerateCodeAt(secret string, t time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return formatCode(hotp(key, t.Unix()/Period)), nil
}

// hotp implements the RFC 4226 HMAC-based one-time password algorithm,
// converting a counter value into a numeric code via HMAC-SHA1 and dynamic
// truncation.
func hotp(key []byte, counter int64) int {
	// Counter is a big-endian 8-byte value (RFC 4226 requirement).
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes)
	sum := mac.Sum(nil)

	// Dynamic truncation: the low 4 bits of the last byte select the offset,
	// the MSB is cleared to keep the value positive.
	offset := sum[len(sum)-1] & 0x0f
	code := (int(sum[offset]&0x7f) << 24) |
		(int(sum[offset+1]) << 16) |
		(int(sum[offset+2]) << 8) |
		int(sum[offset+3])

	return code % int(math.Pow10(Digits))
}

func formatCode(code int) string {
	return fmt.Sprintf("%0*d", Digits, code)
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !secretKeyRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}

	key, err := base32NoPadding.DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}
