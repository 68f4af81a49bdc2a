package api

import (
	"io"
	"net/http"

	"github.com/ayusman/gesturecue/internal/engine"
)

// MaxFrameBody bounds the size of a POST /api/frames body.
const MaxFrameBody = 4 << 20

// FrameSubmitter accepts frames for asynchronous processing.
type FrameSubmitter interface {
	Submit(f engine.Frame) error
}

// FrameHandler ingests frames over HTTP.
type FrameHandler struct {
	sink FrameSubmitter
}

// NewFrameHandler creates a new FrameHandler that forwards to sink.
func NewFrameHandler(sink FrameSubmitter) *FrameHandler {
	return &FrameHandler{sink: sink}
}

type framesResponse struct {
	Accepted int    `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/frames. The body is one frame object or an
// array of frames, queued in order. Frames after the first rejection are
// not queued.
func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxFrameBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if len(body) > MaxFrameBody {
		writeError(w, http.StatusRequestEntityTooLarge, "Body too large")
		return
	}

	frames, err := engine.DecodeFrames(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	accepted := 0
	for _, f := range frames {
		if err := h.sink.Submit(f); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, framesResponse{Accepted: accepted, Error: err.Error()})
			return
		}
		accepted++
	}
	writeJSON(w, http.StatusAccepted, framesResponse{Accepted: accepted})
}
