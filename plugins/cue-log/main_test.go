package main

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHandleAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cues.jsonl")
	cfg, _ := json.Marshal(LogConfig{Path: path})
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	for _, kind := range []string{"downbeat", "upbeat"} {
		req := Request{
			Action:    "append",
			SessionID: "session-1",
			Event:     json.RawMessage(`{"kind":"` + kind + `"}`),
			Config:    cfg,
		}
		if err := handleAppend(req, now); err != nil {
			t.Fatalf("handleAppend() error = %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("log not written: %v", err)
	}
	defer f.Close()

	var lines []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].SessionID != "session-1" || lines[0].LoggedAt != "2026-03-01T20:00:00Z" {
		t.Errorf("unexpected entry: %+v", lines[0])
	}
	if string(lines[1].Event) != `{"kind":"upbeat"}` {
		t.Errorf("expected upbeat event, got %s", lines[1].Event)
	}
}

func TestHandleAppend_RequiresEvent(t *testing.T) {
	if err := handleAppend(Request{Action: "append"}, time.Now()); err == nil {
		t.Error("expected error without event")
	}
}
