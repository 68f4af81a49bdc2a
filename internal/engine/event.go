package engine

import (
	"fmt"
	"strconv"
)

// Kind identifies a gesture event.
type Kind string

const (
	EyeContactStarted   Kind = "eye_contact_started"
	ThumbsUpConfirmed   Kind = "thumbs_up_confirmed"
	ThumbsDownConfirmed Kind = "thumbs_down_confirmed"
	OpenPalmDetected    Kind = "open_palm_detected"
	ApprovalNod         Kind = "approval_nod"
	ApprovalShake       Kind = "approval_shake"
	TempoUpdated        Kind = "tempo_updated"
	TempoCleared        Kind = "tempo_cleared"
	DownbeatDetected    Kind = "downbeat"
	UpbeatDetected      Kind = "upbeat"
	TransportToggled    Kind = "transport_toggled"
)

// Kinds lists every event kind.
var Kinds = []Kind{
	EyeContactStarted,
	ThumbsUpConfirmed,
	ThumbsDownConfirmed,
	OpenPalmDetected,
	ApprovalNod,
	ApprovalShake,
	TempoUpdated,
	TempoCleared,
	DownbeatDetected,
	UpbeatDetected,
	TransportToggled,
}

// ParseKind converts an event kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// Event is a discrete gesture observation.
type Event struct {
	Kind      Kind    `json:"kind"`
	Timestamp float64 `json:"timestamp"`
	// BPM is set on TempoUpdated.
	BPM float64 `json:"bpm,omitempty"`
	// Playing is set on TransportToggled.
	Playing *bool `json:"playing,omitempty"`
	// Hand is the handedness of the hand behind a hand gesture.
	Hand string `json:"hand,omitempty"`
}

func (e Event) String() string {
	s := string(e.Kind) + "@" + strconv.FormatFloat(e.Timestamp, 'f', 3, 64)
	if e.Kind == TempoUpdated {
		s += " bpm=" + strconv.FormatFloat(e.BPM, 'f', 1, 64)
	}
	if e.Playing != nil {
		s += " playing=" + strconv.FormatBool(*e.Playing)
	}
	return s
}
