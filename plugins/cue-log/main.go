// Package main provides an action plugin that appends gesture cues to a
// JSONL file, one line per cue, for later review of a performance.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action    string          `json:"action"`
	SessionID string          `json:"session_id"`
	Event     json.RawMessage `json:"event"`
	Config    json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// LogConfig is the per-binding configuration.
type LogConfig struct {
	Path string `json:"path"`
}

// entry is one logged line.
type entry struct {
	LoggedAt  string          `json:"logged_at"`
	SessionID string          `json:"session_id,omitempty"`
	Event     json.RawMessage `json:"event"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "append":
		if err := handleAppend(req, time.Now()); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleAppend writes req as one line of the configured log, which
// defaults to cues.jsonl in the plugin directory.
func handleAppend(req Request, now time.Time) error {
	cfg := LogConfig{Path: "cues.jsonl"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if len(req.Event) == 0 {
		return fmt.Errorf("event is required")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(entry{
		LoggedAt:  now.UTC().Format(time.RFC3339Nano),
		SessionID: req.SessionID,
		Event:     req.Event,
	})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}
