package postgres

import (
	"context"
	"fmt"

	"github.com/virtmesh/authcore/pkg/identity"
)

// GetOrganizationRole returns the caller's role within an organization.
func (s *Store) GetOrganizationRole(ctx context.Context, userID, orgID string) (identity.Role, error) {
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT role FROM organization_memberships WHERE user_id = $1 AND org_id = $2`,
		userID, orgID,
	).Scan(&role)
	if err != nil {
		if isNotFound(err) {
			return 0, ErrMembershipNotFound
		}
		return 0, fmt.Errorf("get organization role: %w", err)
	}
	return identity.ParseRole(role)
}

// UpsertMembership binds a user to an organization with a role.
func (s *Store) UpsertMembership(ctx context.Context, m identity.Membership) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organization_memberships (user_id, org_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, org_id) DO UPDATE SET role = EXCLUDED.role`,
		m.UserID, m.OrgID, m.Role.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}
