package models

import (
	"strconv"
	"unicode/utf8"
)

// NameDisplayLimit is the number of characters of a name shown in the users table
const NameDisplayLimit = 10

type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
}

// Fields returns the user's values as they appear in the form inputs
func (u User) Fields() UserFields {
	return UserFields{
		Email: u.Email,
		Name:  u.Name,
		Age:   strconv.Itoa(u.Age),
	}
}

// DisplayName truncates the name for the table; the stored name is untouched.
func (u User) DisplayName() string {
	return TruncateName(u.Name)
}

func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= NameDisplayLimit {
		return name
	}
	runes := []rune(name)
	return string(runes[:NameDisplayLimit]) + "..."
}

// UserPayload is the body sent on create and update. Form values travel as
// typed, so Age is a string; ID is only set on updates.
type UserPayload struct {
	ID    *int   `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   string `json:"age"`
}
