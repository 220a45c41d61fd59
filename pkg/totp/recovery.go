package totp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// DefaultRecoveryCodeCount is the number of recovery codes issued on
// two-factor enrollment.
const DefaultRecoveryCodeCount = 10

// GenerateRecoveryCodes creates cryptographically random single-use backup
// codes. Each code is a 16-character hexadecimal string (64 bits of entropy).
func GenerateRecoveryCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidRecoveryCodeCount
	}

	codes := make([]string, count)
	for i := range count {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return nil, errors.Join(ErrRecoveryCodeGenerationFailed, err)
		}
		codes[i] = fmt.Sprintf("%X", buf)
	}
	return codes, nil
}

// HashRecoveryCode returns the SHA-256 digest stored in place of the
// plaintext code.
func HashRecoveryCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyRecoveryCode compares a candidate code against a stored hash in
// constant time.
func VerifyRecoveryCode(code, hashedCode string) bool {
	computed := HashRecoveryCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashedCode)) == 1
}
