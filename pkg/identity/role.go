package identity

import "fmt"

// Role is an ordered permission level. Higher values grant strictly more
// access, so "at least admin" checks reduce to a single rank comparison.
type Role int

const (
	RoleReadOnly Role = iota
	RoleUser
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleReadOnly: "READ_ONLY",
	RoleUser:     "USER",
	RoleAdmin:    "ADMIN",
}

// String returns the canonical storage representation of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether the role ranks at or above the minimum.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// ParseRole converts a stored role string back to its enumeration value.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleReadOnly, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}
