package store

import (
	"github.com/samber/mo"

	"userconsole/models"
)

// State is one console's complete view state
type State struct {
	Users       []models.User
	Draft       models.Draft
	SearchQuery string

	// IssuedSeq is the number of the latest list read (fetch-all or search);
	// AppliedSeq is the number of the read whose result Users holds.
	IssuedSeq  uint64
	AppliedSeq uint64

	LastError mo.Option[string]
}

func InitialState() State {
	return State{
		Users: []models.User{},
		Draft: models.NoDraft(),
	}
}

// Clone returns a copy that shares nothing mutable with s
func (s State) Clone() State {
	users := make([]models.User, len(s.Users))
	copy(users, s.Users)
	s.Users = users
	return s
}

func (s State) FindUser(id int) mo.Option[models.User] {
	for _, u := range s.Users {
		if u.ID == id {
			return mo.Some(u)
		}
	}
	return mo.None[models.User]()
}

// View is the JSON shape of State served to the page
type View struct {
	Users       []UserRow         `json:"users"`
	Total       int               `json:"total"`
	DraftKind   models.DraftKind  `json:"draft_kind"`
	Draft       models.UserFields `json:"draft"`
	EditingID   *int              `json:"editing_id,omitempty"`
	SearchQuery string            `json:"search_query"`
	Error       string            `json:"error,omitempty"`
}

type UserRow struct {
	models.User
	DisplayName string `json:"display_name"`
}

func (s State) View() View {
	rows := make([]UserRow, 0, len(s.Users))
	for _, u := range s.Users {
		rows = append(rows, UserRow{User: u, DisplayName: u.DisplayName()})
	}

	view := View{
		Users:       rows,
		Total:       len(s.Users),
		DraftKind:   s.Draft.Kind(),
		Draft:       s.Draft.Fields(),
		SearchQuery: s.SearchQuery,
		Error:       s.LastError.OrEmpty(),
	}
	if id, ok := s.Draft.EditingID().Get(); ok {
		view.EditingID = &id
	}
	return view
}
