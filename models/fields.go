package models

import (
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
)

type Field string

const (
	FieldEmail Field = "email"
	FieldName  Field = "name"
	FieldAge   Field = "age"
)

// ParseField maps a form input name onto a Field
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldEmail, FieldName, FieldAge:
		return f, nil
	default:
		return "", fmt.Errorf("unknown field %q", name)
	}
}

// UserFields holds the raw form values of a draft
type UserFields struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   string `json:"age"`
}

// With returns a copy with one field replaced
func (f UserFields) With(field Field, value string) UserFields {
	switch field {
	case FieldEmail:
		f.Email = value
	case FieldName:
		f.Name = value
	case FieldAge:
		f.Age = value
	}
	return f
}

// CheckInputConstraints applies the checks a browser enforces on the form
// inputs before it lets a submit through: every input is required, the email
// input must hold an address and the age input must hold a number.
func (f UserFields) CheckInputConstraints() error {
	if strings.TrimSpace(f.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(f.Age) == "" {
		return fmt.Errorf("age is required")
	}
	if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		return fmt.Errorf("email %q is not a valid address", f.Email)
	}
	if n, err := strconv.ParseFloat(f.Age, 64); err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("age %q is not a number", f.Age)
	}
	return nil
}
