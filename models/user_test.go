package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "short", input: "Alice", expected: "Alice"},
		{name: "exactly ten", input: "Alexandria", expected: "Alexandria"},
		{name: "eleven", input: "Alexandrias", expected: "Alexandria..."},
		{name: "long", input: "Bartholomew Jones", expected: "Bartholome..."},
		{name: "multibyte counted per character", input: "ÁÉÍÓÚáéíóúñ", expected: "ÁÉÍÓÚáéíóú..."},
		{name: "ten multibyte unchanged", input: "ÁÉÍÓÚáéíóú", expected: "ÁÉÍÓÚáéíóú"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.input))
		})
	}
}

func TestUser_DisplayNameKeepsStoredName(t *testing.T) {
	user := User{ID: 1, Name: strings.Repeat("x", 15)}
	assert.Equal(t, strings.Repeat("x", 10)+"...", user.DisplayName())
	assert.Len(t, user.Name, 15)
}

func TestUser_Fields(t *testing.T) {
	user := User{ID: 1, Email: "a@x.com", Name: "Alice", Age: 30}
	assert.Equal(t, UserFields{Email: "a@x.com", Name: "Alice", Age: "30"}, user.Fields())
}

func TestUser_DecodesBackendJSON(t *testing.T) {
	var users []User
	err := json.Unmarshal([]byte(`[{"id":1,"email":"a@x.com","name":"Alice","age":30}]`), &users)
	require.NoError(t, err)
	assert.Equal(t, []User{{ID: 1, Email: "a@x.com", Name: "Alice", Age: 30}}, users)
}

func TestUserPayload_CreateOmitsID(t *testing.T) {
	body, err := json.Marshal(NewUserDraft(UserFields{Email: "b@x.com", Name: "Bob", Age: "40"}).Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"b@x.com","name":"Bob","age":"40"}`, string(body))
}
