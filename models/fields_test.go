package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	for _, name := range []string{"email", "name", "age"} {
		f, err := ParseField(name)
		require.NoError(t, err)
		assert.Equal(t, Field(name), f)
	}

	_, err := ParseField("id")
	assert.ErrorContains(t, err, `unknown field "id"`)
}

func TestUserFields_With(t *testing.T) {
	fields := UserFields{Email: "a@x.com", Name: "Alice", Age: "30"}

	assert.Equal(t, UserFields{Email: "b@x.com", Name: "Alice", Age: "30"}, fields.With(FieldEmail, "b@x.com"))
	assert.Equal(t, UserFields{Email: "a@x.com", Name: "Ann", Age: "30"}, fields.With(FieldName, "Ann"))
	assert.Equal(t, UserFields{Email: "a@x.com", Name: "Alice", Age: "31"}, fields.With(FieldAge, "31"))
	assert.Equal(t, "30", fields.Age, "receiver must not change")
}

func TestUserFields_CheckInputConstraints(t *testing.T) {
	tests := []struct {
		name          string
		fields        UserFields
		expectedError string
	}{
		{name: "valid", fields: UserFields{Email: "a@x.com", Name: "Alice", Age: "30"}},
		{name: "decimal age", fields: UserFields{Email: "a@x.com", Name: "Alice", Age: "30.5"}},
		{name: "missing email", fields: UserFields{Name: "Alice", Age: "30"}, expectedError: "email is required"},
		{name: "missing name", fields: UserFields{Email: "a@x.com", Name: "  ", Age: "30"}, expectedError: "name is required"},
		{name: "missing age", fields: UserFields{Email: "a@x.com", Name: "Alice"}, expectedError: "age is required"},
		{name: "bad email", fields: UserFields{Email: "alice", Name: "Alice", Age: "30"}, expectedError: "not a valid address"},
		{name: "display name email", fields: UserFields{Email: "Alice <a@x.com>", Name: "Alice", Age: "30"}, expectedError: "not a valid address"},
		{name: "non numeric age", fields: UserFields{Email: "a@x.com", Name: "Alice", Age: "thirty"}, expectedError: "not a number"},
		{name: "NaN age", fields: UserFields{Email: "a@x.com", Name: "Alice", Age: "NaN"}, expectedError: "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.CheckInputConstraints()
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}
