package users

import (
	"context"
	"fmt"

	"userconsole/clients"
	"userconsole/core/log"
	"userconsole/models"
)

type UsersService struct {
	client clients.UsersAPIClient
}

func NewUsersService(client clients.UsersAPIClient) *UsersService {
	return &UsersService{client: client}
}

func (s *UsersService) ListUsers(ctx context.Context) ([]models.User, error) {
	log.Debug("📋 Starting to list users")

	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	log.Debug("📋 Completed successfully - listed users", "count", len(users))
	return users, nil
}

func (s *UsersService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	log.Debug("📋 Starting to search users", "query", query)

	users, err := s.client.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	log.Debug("📋 Completed successfully - searched users", "query", query, "count", len(users))
	return users, nil
}

// CreateUser posts the draft's values; editing drafts are rejected.
func (s *UsersService) CreateUser(ctx context.Context, draft models.Draft) error {
	if draft.IsEditing() {
		return fmt.Errorf("cannot create user from an editing draft")
	}
	log.Debug("📋 Starting to create user", "email", draft.Fields().Email)

	if err := s.client.CreateUser(ctx, draft.Payload()); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug("📋 Completed successfully - created user", "email", draft.Fields().Email)
	return nil
}

func (s *UsersService) UpdateUser(ctx context.Context, draft models.Draft) error {
	if !draft.IsEditing() {
		return fmt.Errorf("cannot update user without an editing draft")
	}
	id, payload := draft.UpdatePayload()
	log.Debug("📋 Starting to update user", "user_id", id)

	if err := s.client.UpdateUser(ctx, id, payload); err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}

	log.Debug("📋 Completed successfully - updated user", "user_id", id)
	return nil
}

func (s *UsersService) DeleteUser(ctx context.Context, id int) error {
	log.Debug("📋 Starting to delete user", "user_id", id)

	if err := s.client.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	log.Debug("📋 Completed successfully - deleted user", "user_id", id)
	return nil
}
