package apitoken

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/virtmesh/authcore/pkg/identity"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateToken(ctx context.Context, record *Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStorage) GetToken(ctx context.Context, tokenID, ownerID string) (*Record, error) {
	args := m.Called(ctx, tokenID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockStorage) DeleteToken(ctx context.Context, tokenID, ownerID string) error {
	args := m.Called(ctx, tokenID, ownerID)
	return args.Error(0)
}

func (m *MockStorage) GetIdentityByID(ctx context.Context, id string) (*identity.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}
