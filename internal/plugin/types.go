// Package plugin discovers external action executables and runs them
// with a gesture event on stdin.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
	// Events restricts the event kinds the plugin accepts. Empty accepts all.
	Events       []string        `json:"events,omitempty"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Event is the gesture event a plugin is invoked for.
type Event struct {
	Kind      string  `json:"kind"`
	Timestamp float64 `json:"timestamp"`
	BPM       float64 `json:"bpm,omitempty"`
	Playing   *bool   `json:"playing,omitempty"`
	Hand      string  `json:"hand,omitempty"`
}

// Request is written to the plugin's stdin as a single JSON document.
type Request struct {
	Action    string          `json:"action"`
	SessionID string          `json:"session_id,omitempty"`
	Event     Event           `json:"event"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the plugin declares action.
func (p *Plugin) Supports(action string) bool {
	for _, a := range p.Manifest.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Accepts reports whether the plugin wants events of the given kind.
func (p *Plugin) Accepts(kind string) bool {
	if len(p.Manifest.Events) == 0 {
		return true
	}
	for _, k := range p.Manifest.Events {
		if k == kind {
			return true
		}
	}
	return false
}
