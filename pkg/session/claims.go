package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/virtmesh/authcore/pkg/identity"
)

// Claims is the session claim set issued for a verified identity.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID returns the identity id the claims were issued for.
func (c *Claims) UserID() string {
	return c.Subject
}

// UserRole parses the role claim back to its enumeration value.
func (c *Claims) UserRole() (identity.Role, error) {
	return identity.ParseRole(c.Role)
}

// ProfileUpdate describes a partial claim refresh. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name  *string
	Email *string
}
