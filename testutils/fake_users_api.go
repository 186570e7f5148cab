package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"userconsole/models"
)

// RecordedRequest is one call received by FakeUsersAPI
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

func (r RecordedRequest) String() string {
	if r.RawQuery == "" {
		return r.Method + " " + r.Path
	}
	return r.Method + " " + r.Path + "?" + r.RawQuery
}

// FakeUsersAPI is an in-memory users REST API: GET/POST /users,
// PUT/DELETE /users/{id} and GET /users/search?q= matching names by
// case-insensitive substring.
type FakeUsersAPI struct {
	server   *httptest.Server
	mutex    sync.Mutex
	users    map[int]models.User
	nextID   int
	requests []RecordedRequest
	failures map[string][]int
	hooks    map[string]func()
}

func NewFakeUsersAPI(t *testing.T, seed ...models.User) *FakeUsersAPI {
	f := &FakeUsersAPI{
		users:    make(map[int]models.User),
		nextID:   1,
		failures: make(map[string][]int),
		hooks:    make(map[string]func()),
	}
	for _, u := range seed {
		f.users[u.ID] = u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}

	router := mux.NewRouter()
	router.HandleFunc("/users", f.handleList).Methods(http.MethodGet)
	router.HandleFunc("/users", f.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/users/search", f.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/users/{id:[0-9]+}", f.handleUpdate).Methods(http.MethodPut)
	router.HandleFunc("/users/{id:[0-9]+}", f.handleDelete).Methods(http.MethodDelete)

	f.server = httptest.NewServer(f.record(router))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeUsersAPI) URL() string {
	return f.server.URL
}

// FailNext makes the next call to "METHOD /path" answer with status
func (f *FakeUsersAPI) FailNext(method, path string, status int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], status)
}

// OnRequest runs hook before the next call to "METHOD /path" is served
func (f *FakeUsersAPI) OnRequest(method, path string, hook func()) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.hooks[method+" "+path] = hook
}

func (f *FakeUsersAPI) Requests() []RecordedRequest {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestLines returns the recorded requests as "METHOD /path?query" strings
func (f *FakeUsersAPI) RequestLines() []string {
	reqs := f.Requests()
	lines := make([]string, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, r.String())
	}
	return lines
}

func (f *FakeUsersAPI) ResetRequests() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.requests = nil
}

func (f *FakeUsersAPI) Users() []models.User {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.sortedLocked()
}

func (f *FakeUsersAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		key := r.Method + " " + r.URL.Path

		f.mutex.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Body:     string(body),
		})
		hook := f.hooks[key]
		delete(f.hooks, key)
		status := 0
		if queued := f.failures[key]; len(queued) > 0 {
			status = queued[0]
			f.failures[key] = queued[1:]
		}
		f.mutex.Unlock()

		if hook != nil {
			hook()
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeUsersAPI) handleList(w http.ResponseWriter, _ *http.Request) {
	f.mutex.Lock()
	users := f.sortedLocked()
	f.mutex.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (f *FakeUsersAPI) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	f.mutex.Lock()
	matched := make([]models.User, 0)
	for _, u := range f.sortedLocked() {
		if strings.Contains(strings.ToLower(u.Name), q) {
			matched = append(matched, u)
		}
	}
	f.mutex.Unlock()
	writeJSON(w, http.StatusOK, matched)
}

func (f *FakeUsersAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	age, err := ageOf(body["age"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	email, _ := body["email"].(string)
	name, _ := body["name"].(string)

	f.mutex.Lock()
	for _, u := range f.users {
		if u.Email == email {
			f.mutex.Unlock()
			http.Error(w, "email already exists", http.StatusConflict)
			return
		}
	}
	user := models.User{ID: f.nextID, Email: email, Name: name, Age: age}
	f.users[user.ID] = user
	f.nextID++
	f.mutex.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

func (f *FakeUsersAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	user, ok := f.users[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if email, ok := body["email"].(string); ok {
		user.Email = email
	}
	if name, ok := body["name"].(string); ok {
		user.Name = name
	}
	if raw, ok := body["age"]; ok {
		age, err := ageOf(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		user.Age = age
	}
	f.users[id] = user
	writeJSON(w, http.StatusOK, user)
}

func (f *FakeUsersAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.users[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(f.users, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeUsersAPI) sortedLocked() []models.User {
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func ageOf(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case string:
		age, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid age %q", v)
		}
		return age, nil
	default:
		return 0, fmt.Errorf("age is required")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
