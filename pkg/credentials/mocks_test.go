package credentials

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/virtmesh/authcore/pkg/identity"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetIdentityByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockStorage) UpdateLoginAttempts(ctx context.Context, id string, failedAttempts int, lastFailedAt time.Time) error {
	args := m.Called(ctx, id, failedAttempts, lastFailedAt)
	return args.Error(0)
}

// MockSecondFactor is a mock implementation of SecondFactorVerifier.
type MockSecondFactor struct {
	mock.Mock
}

func (m *MockSecondFactor) VerifyCode(ctx context.Context, ident *identity.Identity, code string) error {
	args := m.Called(ctx, ident, code)
	return args.Error(0)
}
