package authz

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/virtmesh/authcore/pkg/identity"
)

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, opaqueToken, requiredScope string, requireAdmin bool) (*identity.Identity, []string, error) {
	args := m.Called(ctx, opaqueToken, requiredScope, requireAdmin)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*identity.Identity), args.Get(1).([]string), args.Error(2)
}

type MockMembershipStorage struct {
	mock.Mock
}

func (m *MockMembershipStorage) GetOrganizationRole(ctx context.Context, userID, orgID string) (identity.Role, error) {
	args := m.Called(ctx, userID, orgID)
	return args.Get(0).(identity.Role), args.Error(1)
}
