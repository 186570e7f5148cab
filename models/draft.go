package models

import (
	"fmt"

	"github.com/samber/mo"

	"userconsole/utils"
)

type DraftKind int

const (
	DraftNone DraftKind = iota
	DraftNew
	DraftEditing
)

func (k DraftKind) String() string {
	switch k {
	case DraftNew:
		return "new"
	case DraftEditing:
		return "editing"
	default:
		return "none"
	}
}

func (k DraftKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DraftKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*k = DraftNone
	case "new":
		*k = DraftNew
	case "editing":
		*k = DraftEditing
	default:
		return fmt.Errorf("unknown draft kind %q", string(text))
	}
	return nil
}

// Draft is the in-progress form: nothing, a user being created, or an existing
// user being edited. Values are immutable; every transition returns a new Draft.
type Draft struct {
	kind   DraftKind
	userID int
	fields UserFields
}

func NoDraft() Draft {
	return Draft{kind: DraftNone}
}

func NewUserDraft(fields UserFields) Draft {
	return Draft{kind: DraftNew, fields: fields}
}

func EditingDraft(user User) Draft {
	return Draft{kind: DraftEditing, userID: user.ID, fields: user.Fields()}
}

func (d Draft) Kind() DraftKind {
	return d.kind
}

func (d Draft) IsEditing() bool {
	return d.kind == DraftEditing
}

// Fields returns the values shown in the form; empty for DraftNone.
func (d Draft) Fields() UserFields {
	return d.fields
}

func (d Draft) EditingID() mo.Option[int] {
	if d.kind != DraftEditing {
		return mo.None[int]()
	}
	return mo.Some(d.userID)
}

// WithField sets one field on whichever draft is active. Typing into an empty
// form starts a new-user draft.
func (d Draft) WithField(field Field, value string) Draft {
	next := d
	if next.kind == DraftNone {
		next.kind = DraftNew
	}
	next.fields = next.fields.With(field, value)
	return next
}

// Payload builds the request body for the draft's create or update call.
func (d Draft) Payload() UserPayload {
	payload := UserPayload{
		Email: d.fields.Email,
		Name:  d.fields.Name,
		Age:   d.fields.Age,
	}
	if d.kind == DraftEditing {
		id := d.userID
		payload.ID = &id
	}
	return payload
}

// UpdatePayload is Payload for an editing draft and panics otherwise.
func (d Draft) UpdatePayload() (int, UserPayload) {
	utils.AssertInvariant(d.kind == DraftEditing, "update payload requires an editing draft")
	return d.userID, d.Payload()
}
