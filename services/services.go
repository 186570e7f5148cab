package services

import (
	"context"

	"userconsole/models"
)

// UsersService defines the user operations the console performs against the backend
type UsersService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	CreateUser(ctx context.Context, draft models.Draft) error
	UpdateUser(ctx context.Context, draft models.Draft) error
	DeleteUser(ctx context.Context, id int) error
}
