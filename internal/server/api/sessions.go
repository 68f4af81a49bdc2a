package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/gesturecue/internal/store"
)

// SessionHandler serves recorded sessions and their events.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/events.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "events" && r.Method == http.MethodGet:
		h.events(w, r, id)
	case sub != "":
		writeError(w, http.StatusNotFound, "Not found")
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

type sessionResponse struct {
	ID        string         `json:"id"`
	Mode      string         `json:"mode"`
	StartedAt string         `json:"started_at"`
	EndedAt   string         `json:"ended_at,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type eventResponse struct {
	ID        int64   `json:"id"`
	Kind      string  `json:"kind"`
	Timestamp float64 `json:"timestamp"`
	BPM       float64 `json:"bpm,omitempty"`
	Playing   *bool   `json:"playing,omitempty"`
	Hand      string  `json:"hand,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Mode:      s.Mode,
		StartedAt: s.StartedAt.Format(timeFormat),
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(timeFormat)
	}
	return resp
}

func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, response)
}

// get returns one session with its per-kind event counts.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, ok := h.lookup(w, id)
	if !ok {
		return
	}
	counts, err := h.store.Events().CountByKind(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	resp := toSessionResponse(sess)
	resp.Counts = counts
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) events(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := h.store.Events().ListBySession(id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:        e.ID,
			Kind:      e.Kind,
			Timestamp: e.Timestamp,
			BPM:       e.BPM,
			Playing:   e.Playing,
			Hand:      e.Hand,
			CreatedAt: e.CreatedAt.Format(timeFormat),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, id string) (*store.Session, bool) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return nil, false
	}
	return sess, true
}
