package users

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userconsole/models"
)

// MockUsersService is a mock implementation of the services.UsersService interface
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUsersService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUsersService) CreateUser(ctx context.Context, draft models.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockUsersService) UpdateUser(ctx context.Context, draft models.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockUsersService) DeleteUser(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
