package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Method: "DELETE", Path: "/users/1", StatusCode: 404, Body: "not here"}
	assert.Equal(t, "DELETE /users/1 failed: status 404, body: not here", err.Error())
}

func TestIsAPIError(t *testing.T) {
	apiErr := &APIError{Method: "GET", Path: "/users", StatusCode: 500}
	wrapped := fmt.Errorf("failed to list users: %w", apiErr)

	got, ok := IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 500, got.StatusCode)

	_, ok = IsAPIError(fmt.Errorf("connection refused"))
	assert.False(t, ok)
}

func TestIsNotFoundError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "sentinel", err: ErrNotFound, expected: true},
		{name: "wrapped sentinel", err: fmt.Errorf("user 7: %w", ErrNotFound), expected: true},
		{name: "api 404", err: fmt.Errorf("delete: %w", &APIError{StatusCode: 404}), expected: true},
		{name: "api 500", err: &APIError{StatusCode: 500}, expected: false},
		{name: "other", err: fmt.Errorf("boom"), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}
