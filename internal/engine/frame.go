package engine

import (
	"bytes"
	"encoding/json"

	"github.com/ayusman/gesturecue/internal/landmark"
)

// Sample is one head-pose reading in degrees.
type Sample struct {
	Pitch     float64 `json:"pitch"`
	Yaw       float64 `json:"yaw"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// Frame is everything the upstream extractor observed at one instant.
// Every part is optional. Head angles take precedence over angles derived
// from Face, and Looking takes precedence over gaze derived from Face.
type Frame struct {
	// Timestamp is in seconds on a monotonic clock.
	Timestamp float64                  `json:"timestamp"`
	Head      *Sample                  `json:"head,omitempty"`
	Face      *landmark.FaceLandmarks  `json:"face,omitempty"`
	Hands     []landmark.HandLandmarks `json:"hands,omitempty"`
	Looking   *bool                    `json:"looking,omitempty"`
}

// Time returns the frame timestamp, falling back to the head sample's.
func (f *Frame) Time() float64 {
	if f.Timestamp == 0 && f.Head != nil {
		return f.Head.Timestamp
	}
	return f.Timestamp
}

// DecodeFrames parses a single frame object or a JSON array of frames.
func DecodeFrames(data []byte) ([]Frame, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var frames []Frame
		if err := json.Unmarshal(data, &frames); err != nil {
			return nil, err
		}
		return frames, nil
	}

	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return []Frame{f}, nil
}
