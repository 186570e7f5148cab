package store

import (
	"fmt"

	"github.com/samber/mo"

	"userconsole/models"
)

// Reduce returns the state that results from applying action to s. It never
// mutates s.
func Reduce(s State, action Action) State {
	next := s.Clone()

	switch a := action.(type) {
	case FetchIssued:
		next.IssuedSeq++

	case UsersReceived:
		// only the latest issued read may land
		if a.Seq != next.IssuedSeq {
			return next
		}
		users := make([]models.User, len(a.Users))
		copy(users, a.Users)
		next.Users = users
		next.AppliedSeq = a.Seq

	case FieldEdited:
		next.Draft = next.Draft.WithField(a.Field, a.Value)

	case EditStarted:
		next.Draft = models.EditingDraft(a.User)

	case EditCancelled:
		if next.Draft.IsEditing() {
			next.Draft = models.NoDraft()
		}

	case CreateSucceeded:
		// an edit started while the create was in flight keeps the form
		if !next.Draft.IsEditing() {
			next.Draft = models.NewUserDraft(models.UserFields{})
		}

	case UpdateSucceeded:
		if next.Draft.IsEditing() {
			next.Draft = models.NoDraft()
		}

	case SearchQueryChanged:
		next.SearchQuery = a.Query

	case OperationFailed:
		next.LastError = mo.Some(fmt.Sprintf("%s failed: %v", a.Op, a.Err))

	case OperationSucceeded:
		next.LastError = mo.None[string]()
	}

	return next
}
