package clients

import (
	"context"

	"userconsole/models"
)

// UsersAPIClient is the external users REST API the console reads and writes
type UsersAPIClient interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	CreateUser(ctx context.Context, payload models.UserPayload) error
	UpdateUser(ctx context.Context, id int, payload models.UserPayload) error
	DeleteUser(ctx context.Context, id int) error
}
