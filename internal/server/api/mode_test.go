package api

import (
	"net/http"
	"testing"

	"github.com/ayusman/gesturecue/internal/engine"
)

// fakeEngine satisfies ModeController and GateController.
type fakeEngine struct {
	mode  engine.Mode
	armed map[engine.Kind]bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{mode: engine.ModeApproval, armed: map[engine.Kind]bool{}}
}

func (f *fakeEngine) Mode() engine.Mode { return f.mode }

func (f *fakeEngine) SetMode(m engine.Mode) error {
	f.mode = m
	return nil
}

func (f *fakeEngine) Arm(k engine.Kind) error {
	if k == engine.TempoUpdated {
		return engine.ErrNotGated
	}
	f.armed[k] = true
	return nil
}

func (f *fakeEngine) Disarm(k engine.Kind) error {
	if k == engine.TempoUpdated {
		return engine.ErrNotGated
	}
	f.armed[k] = false
	return nil
}

func TestModeHandler(t *testing.T) {
	ctl := newFakeEngine()
	handler := NewModeHandler(ctl)

	var resp modeResponse
	decode(t, do(t, handler, http.MethodGet, "/api/mode", nil), &resp)
	if resp.Mode != engine.ModeApproval {
		t.Errorf("expected mode approval, got %s", resp.Mode)
	}
	if len(resp.Modes) != len(engine.Modes) {
		t.Errorf("expected %d modes, got %d", len(engine.Modes), len(resp.Modes))
	}

	rec := do(t, handler, http.MethodPut, "/api/mode", modeRequest{Mode: "transport"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ctl.mode != engine.ModeTransport {
		t.Errorf("expected mode transport, got %s", ctl.mode)
	}

	if rec := do(t, handler, http.MethodPut, "/api/mode", modeRequest{Mode: "dance"}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec := do(t, handler, http.MethodPut, "/api/mode", "{"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec := do(t, handler, http.MethodDelete, "/api/mode", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestGateHandler(t *testing.T) {
	ctl := newFakeEngine()
	handler := NewGateHandler(ctl)

	rec := do(t, handler, http.MethodPost, "/api/gates/thumbs_up_confirmed/disarm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp gateResponse
	decode(t, rec, &resp)
	if resp.Kind != engine.ThumbsUpConfirmed || resp.Armed {
		t.Errorf("unexpected response: %+v", resp)
	}
	if ctl.armed[engine.ThumbsUpConfirmed] {
		t.Error("expected gate to be disarmed")
	}

	do(t, handler, http.MethodPost, "/api/gates/thumbs_up_confirmed/arm", nil)
	if !ctl.armed[engine.ThumbsUpConfirmed] {
		t.Error("expected gate to be armed")
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/api/gates/tempo_updated/arm", http.StatusBadRequest},
		{http.MethodPost, "/api/gates/wink/arm", http.StatusNotFound},
		{http.MethodPost, "/api/gates/approval_nod/toggle", http.StatusNotFound},
		{http.MethodGet, "/api/gates/approval_nod/arm", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		if rec := do(t, handler, tt.method, tt.path, nil); rec.Code != tt.want {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}
}
