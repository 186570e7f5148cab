package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = User{ID: 1, Email: "a@x.com", Name: "Alice", Age: 30}

func TestDraft_TypingStartsNewDraft(t *testing.T) {
	draft := NoDraft().WithField(FieldEmail, "b@x.com")

	assert.Equal(t, DraftNew, draft.Kind())
	assert.Equal(t, UserFields{Email: "b@x.com"}, draft.Fields())
	assert.True(t, draft.EditingID().IsAbsent())
}

func TestDraft_EditingChangesOnlyOneField(t *testing.T) {
	draft := EditingDraft(alice).WithField(FieldAge, "31")

	assert.Equal(t, DraftEditing, draft.Kind())
	assert.Equal(t, UserFields{Email: "a@x.com", Name: "Alice", Age: "31"}, draft.Fields())
	assert.Equal(t, 1, draft.EditingID().MustGet())
}

func TestDraft_UpdatePayload(t *testing.T) {
	id, payload := EditingDraft(alice).WithField(FieldAge, "31").UpdatePayload()
	assert.Equal(t, 1, id)

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"email":"a@x.com","name":"Alice","age":"31"}`, string(body))
}

func TestDraft_UpdatePayloadRequiresEditing(t *testing.T) {
	assert.Panics(t, func() {
		NewUserDraft(UserFields{}).UpdatePayload()
	})
}

func TestDraftKind_MarshalText(t *testing.T) {
	body, err := json.Marshal(map[string]DraftKind{"none": DraftNone, "new": DraftNew, "editing": DraftEditing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"none":"none","new":"new","editing":"editing"}`, string(body))
}

func TestDraftKind_UnmarshalText(t *testing.T) {
	var kinds map[string]DraftKind
	require.NoError(t, json.Unmarshal([]byte(`{"a":"none","b":"new","c":"editing"}`), &kinds))
	assert.Equal(t, map[string]DraftKind{"a": DraftNone, "b": DraftNew, "c": DraftEditing}, kinds)

	var k DraftKind
	assert.Error(t, k.UnmarshalText([]byte("deleted")))
}
