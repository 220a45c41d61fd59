package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtmesh/authcore/pkg/identity"
)

func TestRoleOrdering(t *testing.T) {
	t.Parallel()

	assert.True(t, identity.RoleUser.AtLeast(identity.RoleReadOnly))
	assert.True(t, identity.RoleAdmin.AtLeast(identity.RoleUser))
	assert.True(t, identity.RoleAdmin.AtLeast(identity.RoleAdmin))
	assert.False(t, identity.RoleReadOnly.AtLeast(identity.RoleUser))
	assert.False(t, identity.RoleUser.AtLeast(identity.RoleAdmin))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    identity.Role
		wantErr bool
	}{
		{"read only", "READ_ONLY", identity.RoleReadOnly, false},
		{"user", "USER", identity.RoleUser, false},
		{"admin", "ADMIN", identity.RoleAdmin, false},
		{"lowercase rejected", "admin", 0, true},
		{"empty rejected", "", 0, true},
		{"unknown rejected", "SUPERUSER", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			role, err := identity.ParseRole(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, identity.ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, role := range []identity.Role{identity.RoleReadOnly, identity.RoleUser, identity.RoleAdmin} {
		parsed, err := identity.ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}
}

func TestHasLegacyID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"uuid", "3f1f8dd0-9f6b-4b44-a6f5-7f8f6f9f1a2b", false},
		{"bare integer", "42", true},
		{"negative integer", "-7", true},
		{"alphanumeric", "cltx9d8yq0000", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ident := &identity.Identity{ID: tt.id}
			assert.Equal(t, tt.want, ident.HasLegacyID())
		})
	}
}
