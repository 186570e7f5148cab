package store

import "userconsole/models"

// Action is a state transition applied by Reduce
type Action interface {
	isAction()
}

type Operation string

const (
	OpLoad   Operation = "load"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpSearch Operation = "search"
	OpSubmit Operation = "submit"
)

// FetchIssued reserves the next list-read sequence number
type FetchIssued struct{}

// UsersReceived carries a list read's result tagged with its sequence number
type UsersReceived struct {
	Seq   uint64
	Users []models.User
}

type FieldEdited struct {
	Field models.Field
	Value string
}

type EditStarted struct {
	User models.User
}

type EditCancelled struct{}

// CreateSucceeded resets the form to an empty new-user draft
type CreateSucceeded struct{}

// UpdateSucceeded clears the editing draft
type UpdateSucceeded struct{}

type SearchQueryChanged struct {
	Query string
}

type OperationFailed struct {
	Op  Operation
	Err error
}

type OperationSucceeded struct {
	Op Operation
}

func (FetchIssued) isAction()        {}
func (UsersReceived) isAction()      {}
func (FieldEdited) isAction()        {}
func (EditStarted) isAction()        {}
func (EditCancelled) isAction()      {}
func (CreateSucceeded) isAction()    {}
func (UpdateSucceeded) isAction()    {}
func (SearchQueryChanged) isAction() {}
func (OperationFailed) isAction()    {}
func (OperationSucceeded) isAction() {}
