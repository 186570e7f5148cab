package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"userconsole/appctx"
	"userconsole/core"
	"userconsole/core/log"
	"userconsole/middleware"
	"userconsole/models"
	"userconsole/usecases/console"
	"userconsole/views"
)

type ConsoleHTTPHandler struct {
	sessionMiddleware *middleware.SessionMiddleware
}

func NewConsoleHTTPHandler(sessionMiddleware *middleware.SessionMiddleware) *ConsoleHTTPHandler {
	return &ConsoleHTTPHandler{
		sessionMiddleware: sessionMiddleware,
	}
}

type DraftFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type SearchQueryRequest struct {
	Query string `json:"query"`
}

// operationContext keeps backend calls running when the browser goes away
func operationContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func consoleFromRequest(w http.ResponseWriter, r *http.Request) (*console.Console, bool) {
	c, ok := appctx.GetConsole(r.Context())
	if !ok {
		log.Error("❌ Console not found in context")
		http.Error(w, "session required", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

func userIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		log.Warn("⚠️ Invalid user id in path", "id", mux.Vars(r)["id"])
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// HTML console

func (h *ConsoleHTTPHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderConsole(w, c.Snapshot().View()); err != nil {
		log.Error("❌ Failed to render console", "error", err)
	}
}

func (h *ConsoleHTTPHandler) HandleSubmitForm(w http.ResponseWriter, r *http.Request) {
	log.Info("➕ Submit form received", "remote_addr", r.RemoteAddr)

	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		log.Error("❌ Failed to parse form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	for _, field := range []models.Field{models.FieldEmail, models.FieldName, models.FieldAge} {
		if _, present := r.PostForm[string(field)]; !present {
			continue
		}
		if err := c.EditField(string(field), r.PostForm.Get(string(field))); err != nil {
			h.redirectAfter(w, r, err)
			return
		}
	}

	h.redirectAfter(w, r, c.Submit(operationContext(r)))
}

func (h *ConsoleHTTPHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := userIDFromPath(w, r)
	if !ok {
		return
	}

	h.redirectAfter(w, r, c.EditByID(id))
}

func (h *ConsoleHTTPHandler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	log.Info("🗑️ Delete form received", "remote_addr", r.RemoteAddr)

	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := userIDFromPath(w, r)
	if !ok {
		return
	}

	h.redirectAfter(w, r, c.Delete(operationContext(r), id))
}

func (h *ConsoleHTTPHandler) HandleCancelEditForm(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}

	h.redirectAfter(w, r, c.CancelEdit())
}

func (h *ConsoleHTTPHandler) HandleSearchForm(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		log.Error("❌ Failed to parse form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if err := c.SetSearchQuery(r.PostForm.Get("q")); err != nil {
		h.redirectAfter(w, r, err)
		return
	}
	h.redirectAfter(w, r, c.Search(operationContext(r)))
}

// redirectAfter sends the browser back to the page; operation failures are
// already part of the rendered state
func (h *ConsoleHTTPHandler) redirectAfter(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, console.ErrConsoleClosed) {
		http.Error(w, "session closed", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		sessionID, _ := appctx.GetSessionID(r.Context())
		log.Warn("⚠️ Console operation failed", "session_id", sessionID, "path", r.URL.Path, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// JSON API

func (h *ConsoleHTTPHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	h.writeJSONResponse(w, http.StatusOK, c.Snapshot().View())
}

func (h *ConsoleHTTPHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	log.Info("📋 Load users request received", "remote_addr", r.RemoteAddr)

	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	h.writeStateResponse(w, r, c, c.Load(operationContext(r)))
}

func (h *ConsoleHTTPHandler) HandleEditDraft(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}

	var req DraftFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("❌ Failed to parse request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.EditField(req.Field, req.Value); err != nil {
		if !errors.Is(err, console.ErrConsoleClosed) {
			log.Warn("⚠️ Invalid draft field", "field", req.Field, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeStateResponse(w, r, c, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, c.Snapshot().View())
}

func (h *ConsoleHTTPHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	log.Info("➕ Submit request received", "remote_addr", r.RemoteAddr)

	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	h.writeStateResponse(w, r, c, c.Submit(operationContext(r)))
}

func (h *ConsoleHTTPHandler) HandleStartEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := userIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.EditByID(id); err != nil {
		if core.IsNotFoundError(err) {
			log.Warn("⚠️ User not in current list", "user_id", id)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.writeStateResponse(w, r, c, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, c.Snapshot().View())
}

func (h *ConsoleHTTPHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	log.Info("🗑️ Delete user request received", "remote_addr", r.RemoteAddr)

	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := userIDFromPath(w, r)
	if !ok {
		return
	}
	h.writeStateResponse(w, r, c, c.Delete(operationContext(r), id))
}

func (h *ConsoleHTTPHandler) HandleCancelEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	h.writeStateResponse(w, r, c, c.CancelEdit())
}

func (h *ConsoleHTTPHandler) HandleSetSearchQuery(w http.ResponseWriter, r *http.Request) {
	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}

	var req SearchQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("❌ Failed to parse request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.writeStateResponse(w, r, c, c.SetSearchQuery(req.Query))
}

func (h *ConsoleHTTPHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	log.Info("🔍 Search request received", "remote_addr", r.RemoteAddr)

	c, ok := consoleFromRequest(w, r)
	if !ok {
		return
	}
	h.writeStateResponse(w, r, c, c.Search(operationContext(r)))
}

func (h *ConsoleHTTPHandler) SetupEndpoints(router *mux.Router) {
	log.Info("🚀 Registering console endpoints")
	// only the page starts sessions; every other route acts on an existing one
	requireSession := h.sessionMiddleware.RequireSession

	router.HandleFunc("/", h.sessionMiddleware.WithSession(h.HandleIndex)).Methods("GET")
	router.HandleFunc("/submit", requireSession(h.HandleSubmitForm)).Methods("POST")
	router.HandleFunc("/users/{id:[0-9]+}/edit", requireSession(h.HandleEditForm)).Methods("POST")
	router.HandleFunc("/users/{id:[0-9]+}/delete", requireSession(h.HandleDeleteForm)).Methods("POST")
	router.HandleFunc("/edit/cancel", requireSession(h.HandleCancelEditForm)).Methods("POST")
	router.HandleFunc("/search", requireSession(h.HandleSearchForm)).Methods("POST")
	log.Info("✅ HTML console endpoints registered")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", requireSession(h.HandleGetState)).Methods("GET")
	api.HandleFunc("/load", requireSession(h.HandleLoad)).Methods("POST")
	api.HandleFunc("/draft", requireSession(h.HandleEditDraft)).Methods("PUT")
	api.HandleFunc("/submit", requireSession(h.HandleSubmit)).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}/edit", requireSession(h.HandleStartEdit)).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}", requireSession(h.HandleDeleteUser)).Methods("DELETE")
	api.HandleFunc("/edit/cancel", requireSession(h.HandleCancelEdit)).Methods("POST")
	api.HandleFunc("/search-query", requireSession(h.HandleSetSearchQuery)).Methods("PUT")
	api.HandleFunc("/search", requireSession(h.HandleSearch)).Methods("POST")
	log.Info("✅ Console JSON API endpoints registered")
}

// writeStateResponse answers with the console state. A failed backend call
// is reported in the state's error field, not the status code.
func (h *ConsoleHTTPHandler) writeStateResponse(
	w http.ResponseWriter,
	r *http.Request,
	c *console.Console,
	err error,
) {
	if errors.Is(err, console.ErrConsoleClosed) {
		http.Error(w, "session closed", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		sessionID, _ := appctx.GetSessionID(r.Context())
		log.Warn("⚠️ Console operation failed", "session_id", sessionID, "path", r.URL.Path, "error", err)
	}
	h.writeJSONResponse(w, http.StatusOK, c.Snapshot().View())
}

func (h *ConsoleHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("❌ Failed to encode JSON response", "error", err)
	}
}
