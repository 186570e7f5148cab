package console

import (
	"context"
	"fmt"

	"userconsole/core"
	"userconsole/core/log"
	"userconsole/models"
	"userconsole/services"
	"userconsole/store"
)

// Console is the controller behind one console page. It turns interactions
// into users API calls and store actions. Every state change runs on the
// console's EventLoop; API calls run on the caller's goroutine, so several
// may be in flight at once.
type Console struct {
	usersService services.UsersService
	store        *store.Store
	loop         *EventLoop
}

func NewConsole(usersService services.UsersService) *Console {
	return &Console{
		usersService: usersService,
		store:        store.NewStore(),
		loop:         NewEventLoop(),
	}
}

func (c *Console) Close() {
	c.loop.Stop()
}

func (c *Console) Snapshot() store.State {
	return c.store.State()
}

// Subscribe calls fn with every new state. fn runs on the event loop and must
// not block or call back into the console.
func (c *Console) Subscribe(fn func(store.State)) func() {
	return c.store.Subscribe(fn)
}

func (c *Console) dispatch(actions ...store.Action) (store.State, error) {
	var st store.State
	err := c.loop.Do(func() {
		for _, a := range actions {
			st = c.store.Dispatch(a)
		}
	})
	return st, err
}

func (c *Console) read() (store.State, error) {
	var st store.State
	err := c.loop.Do(func() {
		st = c.store.State()
	})
	return st, err
}

func (c *Console) fail(op store.Operation, err error) error {
	if apiErr, ok := core.IsAPIError(err); ok {
		log.Error(fmt.Sprintf("❌ Failed to %s", op), "status", apiErr.StatusCode, "error", err)
	} else {
		log.Error(fmt.Sprintf("❌ Failed to %s", op), "error", err)
	}
	if _, dispatchErr := c.dispatch(store.OperationFailed{Op: op, Err: err}); dispatchErr != nil {
		return dispatchErr
	}
	return err
}

// Load reads the full collection and replaces the list with it
func (c *Console) Load(ctx context.Context) error {
	st, err := c.dispatch(store.FetchIssued{})
	if err != nil {
		return err
	}
	seq := st.IssuedSeq

	users, err := c.usersService.ListUsers(ctx)
	if err != nil {
		return c.fail(store.OpLoad, err)
	}

	st, err = c.dispatch(store.UsersReceived{Seq: seq, Users: users}, store.OperationSucceeded{Op: store.OpLoad})
	if err != nil {
		return err
	}
	if st.AppliedSeq != seq {
		log.Info("⚠️ Discarded stale users list", "seq", seq, "latest", st.IssuedSeq)
		return nil
	}
	log.Info("✅ Loaded users", "count", len(users), "seq", seq)
	return nil
}

// EditField sets one input of whichever draft is active
func (c *Console) EditField(name, value string) error {
	field, err := models.ParseField(name)
	if err != nil {
		return err
	}
	_, err = c.dispatch(store.FieldEdited{Field: field, Value: value})
	return err
}

func (c *Console) SetSearchQuery(query string) error {
	_, err := c.dispatch(store.SearchQueryChanged{Query: query})
	return err
}

// Edit promotes user to the editing draft, discarding any new-user draft
func (c *Console) Edit(user models.User) error {
	_, err := c.dispatch(store.EditStarted{User: user})
	return err
}

// EditByID edits the user with id from the current list
func (c *Console) EditByID(id int) error {
	var found bool
	err := c.loop.Do(func() {
		user, ok := c.store.State().FindUser(id).Get()
		if !ok {
			return
		}
		found = true
		c.store.Dispatch(store.EditStarted{User: user})
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (c *Console) CancelEdit() error {
	_, err := c.dispatch(store.EditCancelled{})
	return err
}

// Submit updates the user being edited, or creates a user from the new-user
// draft. Nothing is sent while a field fails the form's input checks. On success the list is re-fetched; on failure the form keeps its values.
func (c *Console) Submit(ctx context.Context) error {
	st, err := c.read()
	if err != nil {
		return err
	}
	draft := st.Draft

	// the form's required/email/number checks hold for both create and update
	if err := draft.Fields().CheckInputConstraints(); err != nil {
		return c.fail(store.OpSubmit, err)
	}

	if draft.IsEditing() {
		if err := c.usersService.UpdateUser(ctx, draft); err != nil {
			return c.fail(store.OpUpdate, err)
		}
		if _, err := c.dispatch(store.UpdateSucceeded{}, store.OperationSucceeded{Op: store.OpUpdate}); err != nil {
			return err
		}
		log.Info("✅ Updated user", "user_id", draft.EditingID().OrEmpty())
		c.refetch(ctx)
		return nil
	}

	if err := c.usersService.CreateUser(ctx, draft); err != nil {
		return c.fail(store.OpCreate, err)
	}
	if _, err := c.dispatch(store.CreateSucceeded{}, store.OperationSucceeded{Op: store.OpCreate}); err != nil {
		return err
	}
	log.Info("✅ Created user", "email", draft.Fields().Email)
	c.refetch(ctx)
	return nil
}

// Delete removes the user with id without checking the current list first
func (c *Console) Delete(ctx context.Context, id int) error {
	if err := c.usersService.DeleteUser(ctx, id); err != nil {
		return c.fail(store.OpDelete, err)
	}
	if _, err := c.dispatch(store.OperationSucceeded{Op: store.OpDelete}); err != nil {
		return err
	}
	log.Info("✅ Deleted user", "user_id", id)
	c.refetch(ctx)
	return nil
}

// Search replaces the list with the backend's matches for the current query.
// The full list comes back only through Load.
func (c *Console) Search(ctx context.Context) error {
	var query string
	var seq uint64
	err := c.loop.Do(func() {
		st := c.store.Dispatch(store.FetchIssued{})
		query = st.SearchQuery
		seq = st.IssuedSeq
	})
	if err != nil {
		return err
	}

	users, err := c.usersService.SearchUsers(ctx, query)
	if err != nil {
		return c.fail(store.OpSearch, err)
	}

	st, err := c.dispatch(store.UsersReceived{Seq: seq, Users: users}, store.OperationSucceeded{Op: store.OpSearch})
	if err != nil {
		return err
	}
	if st.AppliedSeq != seq {
		log.Info("⚠️ Discarded stale search result", "query", query, "seq", seq, "latest", st.IssuedSeq)
		return nil
	}
	log.Info("✅ Searched users", "query", query, "count", len(users))
	return nil
}

// refetch reloads after a successful mutation; its failure is recorded in
// the state and does not fail the mutation.
func (c *Console) refetch(ctx context.Context) {
	_ = c.Load(ctx)
}
