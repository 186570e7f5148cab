package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"userconsole/clients"
	"userconsole/core"
	"userconsole/models"
)

// UsersAPIClient implements clients.UsersAPIClient over HTTP+JSON
type UsersAPIClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewUsersAPIClient creates a client for the API at baseURL. A zero timeout
// leaves requests bounded only by the caller's context.
func NewUsersAPIClient(baseURL string, timeout time.Duration) clients.UsersAPIClient {
	return &UsersAPIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *UsersAPIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

// SearchUsers percent-encodes query, so "a&b" reaches the API as q=a%26b
func (c *UsersAPIClient) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	path := "/users/search?" + url.Values{"q": []string{query}}.Encode()

	var users []models.User
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

func (c *UsersAPIClient) CreateUser(ctx context.Context, payload models.UserPayload) error {
	return c.do(ctx, http.MethodPost, "/users", payload, nil)
}

func (c *UsersAPIClient) UpdateUser(ctx context.Context, id int, payload models.UserPayload) error {
	return c.do(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), payload, nil)
}

func (c *UsersAPIClient) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

func (c *UsersAPIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &core.APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func nonNil(users []models.User) []models.User {
	if users == nil {
		return []models.User{}
	}
	return users
}
