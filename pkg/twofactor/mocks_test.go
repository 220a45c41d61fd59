package twofactor

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/virtmesh/authcore/pkg/identity"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetIdentityByID(ctx context.Context, id string) (*identity.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockStorage) UpdateTwoFactor(ctx context.Context, id string, enabled bool, encryptedSecret string, recoveryCodeHashes []string) error {
	args := m.Called(ctx, id, enabled, encryptedSecret, recoveryCodeHashes)
	return args.Error(0)
}

func (m *MockStorage) UpdateRecoveryCodes(ctx context.Context, id string, recoveryCodeHashes []string) error {
	args := m.Called(ctx, id, recoveryCodeHashes)
	return args.Error(0)
}
