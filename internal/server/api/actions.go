package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/plugin"
	"github.com/ayusman/gesturecue/internal/store"
)

// PluginLookup resolves plugins by name.
type PluginLookup interface {
	Get(name string) (*plugin.Plugin, error)
}

// ActionHandler handles HTTP requests for action bindings.
type ActionHandler struct {
	store   *store.Store
	plugins PluginLookup
}

// NewActionHandler creates a new ActionHandler. When plugins is non-nil,
// bindings must name a discovered plugin and one of its actions.
func NewActionHandler(s *store.Store, plugins PluginLookup) *ActionHandler {
	return &ActionHandler{store: s, plugins: plugins}
}

// ServeHTTP routes /api/actions and /api/actions/{id}.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/actions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

type createActionRequest struct {
	EventKind  string          `json:"event_kind"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
}

type updateActionRequest struct {
	EventKind  string          `json:"event_kind"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type actionResponse struct {
	ID         string          `json:"id"`
	EventKind  string          `json:"event_kind"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listActionsResponse struct {
	Actions []actionResponse `json:"actions"`
}

func toActionResponse(a *store.Action) actionResponse {
	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}
	return actionResponse{
		ID:         a.ID,
		EventKind:  a.EventKind,
		PluginName: a.PluginName,
		ActionName: a.ActionName,
		Config:     config,
		Enabled:    a.Enabled,
		CreatedAt:  a.CreatedAt.Format(timeFormat),
	}
}

// validate checks a binding against the known event kinds and plugins and
// returns a client-facing message on failure.
func (h *ActionHandler) validate(a *store.Action) string {
	if _, err := engine.ParseKind(a.EventKind); err != nil {
		return "Unknown event kind"
	}
	if h.plugins == nil {
		return ""
	}
	p, err := h.plugins.Get(a.PluginName)
	if err != nil {
		return "Plugin not found"
	}
	if !p.Supports(a.ActionName) {
		return "Plugin does not support action"
	}
	if !p.Accepts(a.EventKind) {
		return "Plugin does not accept event kind"
	}
	return ""
}

func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		actions []*store.Action
		err     error
	)
	if kind := r.URL.Query().Get("event_kind"); kind != "" {
		actions, err = h.store.Actions().ListByEventKind(kind)
	} else {
		actions, err = h.store.Actions().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}

	response := listActionsResponse{Actions: make([]actionResponse, 0, len(actions))}
	for _, a := range actions {
		response.Actions = append(response.Actions, toActionResponse(a))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *ActionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}
	writeJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *ActionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch {
	case req.EventKind == "":
		writeError(w, http.StatusBadRequest, "event_kind is required")
		return
	case req.PluginName == "":
		writeError(w, http.StatusBadRequest, "plugin_name is required")
		return
	case req.ActionName == "":
		writeError(w, http.StatusBadRequest, "action_name is required")
		return
	}

	action := &store.Action{
		ID:         uuid.New().String(),
		EventKind:  req.EventKind,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    true,
	}
	if msg := h.validate(action); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if action.Config == nil {
		action.Config = json.RawMessage("{}")
	}

	if err := h.store.Actions().Create(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create action")
		return
	}
	writeJSON(w, http.StatusCreated, toActionResponse(action))
}

func (h *ActionHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}

	var req updateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.EventKind != "" {
		action.EventKind = req.EventKind
	}
	if req.PluginName != "" {
		action.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		action.ActionName = req.ActionName
	}
	if req.Config != nil {
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}
	if msg := h.validate(action); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Actions().Update(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update action")
		return
	}
	writeJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *ActionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Actions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
