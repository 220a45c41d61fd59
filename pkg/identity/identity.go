package identity

import (
	"strconv"
	"time"
)

// Identity represents a user account in the authentication system.
//
// PasswordHash, TwoFactorSecret, and RecoveryCodeHashes never contain
// plaintext material: the hash is bcrypt, the secret is an encrypted
// envelope, and recovery codes are stored as SHA-256 digests.
type Identity struct {
	ID                 string
	Name               string
	Email              string
	Role               Role
	Active             bool
	PasswordHash       []byte
	FailedAttempts     int
	LastFailedAt       time.Time // zero when no failed attempt is recorded
	TwoFactorEnabled   bool
	TwoFactorSecret    string // encrypted envelope, empty when disabled
	RecoveryCodeHashes []string
	LastLogin          time.Time
	CreatedAt          time.Time
}

// Membership binds a user to an organization with an organization-scoped
// role. It is owned by an external collaborator and consumed here read-only
// for rank comparison.
type Membership struct {
	UserID string
	OrgID  string
	Role   Role
}

// HasLegacyID reports whether the identity carries a bare-integer id, an
// artifact of pre-migration installations. Such identities must not resolve
// to an authenticated session.
func (i *Identity) HasLegacyID() bool {
	_, err := strconv.Atoi(i.ID)
	return err == nil
}
