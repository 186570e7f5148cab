package users

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userconsole/models"
)

// MockUsersAPIClient is a mock implementation of clients.UsersAPIClient
type MockUsersAPIClient struct {
	mock.Mock
}

func (m *MockUsersAPIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUsersAPIClient) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUsersAPIClient) CreateUser(ctx context.Context, payload models.UserPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockUsersAPIClient) UpdateUser(ctx context.Context, id int, payload models.UserPayload) error {
	args := m.Called(ctx, id, payload)
	return args.Error(0)
}

func (m *MockUsersAPIClient) DeleteUser(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
