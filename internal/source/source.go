// Package source feeds frames into the engine from outside the HTTP
// surface: an MQTT topic or a recorded JSONL file.
package source

import "github.com/ayusman/gesturecue/internal/engine"

// Sink receives decoded frames.
type Sink interface {
	Submit(f engine.Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f engine.Frame) error

// Submit calls fn(f).
func (fn SinkFunc) Submit(f engine.Frame) error {
	return fn(f)
}
