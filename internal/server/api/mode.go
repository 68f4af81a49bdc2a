package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/gesturecue/internal/engine"
)

// ModeController reads and switches the engine mode.
type ModeController interface {
	Mode() engine.Mode
	SetMode(mode engine.Mode) error
}

// GateController arms and disarms event gates.
type GateController interface {
	Arm(kind engine.Kind) error
	Disarm(kind engine.Kind) error
}

// ModeHandler serves GET and PUT /api/mode.
type ModeHandler struct {
	ctl ModeController
}

// NewModeHandler creates a new ModeHandler.
func NewModeHandler(ctl ModeController) *ModeHandler {
	return &ModeHandler{ctl: ctl}
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type modeResponse struct {
	Mode  engine.Mode   `json:"mode"`
	Modes []engine.Mode `json:"modes"`
}

func (h *ModeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req modeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		mode, err := engine.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.ctl.SetMode(mode); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to set mode")
			return
		}
	default:
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, modeResponse{Mode: h.ctl.Mode(), Modes: engine.Modes})
}

// GateHandler serves POST /api/gates/{kind}/arm and /api/gates/{kind}/disarm.
type GateHandler struct {
	ctl GateController
}

// NewGateHandler creates a new GateHandler.
func NewGateHandler(ctl GateController) *GateHandler {
	return &GateHandler{ctl: ctl}
}

type gateResponse struct {
	Kind  engine.Kind `json:"kind"`
	Armed bool        `json:"armed"`
}

func (h *GateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/gates"), "/")
	name, op, _ := strings.Cut(path, "/")
	kind, err := engine.ParseKind(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown event kind")
		return
	}

	switch op {
	case "arm":
		err = h.ctl.Arm(kind)
	case "disarm":
		err = h.ctl.Disarm(kind)
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if errors.Is(err, engine.ErrNotGated) {
		writeError(w, http.StatusBadRequest, "Event kind has no gate")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update gate")
		return
	}
	writeJSON(w, http.StatusOK, gateResponse{Kind: kind, Armed: op == "arm"})
}
