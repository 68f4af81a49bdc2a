// Package testdata generates synthetic frame streams for tests: head
// oscillations, metronome nods and held hand poses at a fixed frame rate.
package testdata

import (
	"encoding/json"
	"io"
	"math"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/landmark"
)

// FPS is the frame rate of every generated stream.
const FPS = 30.0

// At returns the timestamp of frame i.
func At(i int) float64 { return float64(i) / FPS }

// Head returns a head-pose frame.
func Head(i int, pitch, yaw float64) engine.Frame {
	return engine.Frame{Timestamp: At(i), Head: &engine.Sample{Pitch: pitch, Yaw: yaw}}
}

// Still returns n frames of a motionless, centered head.
func Still(start, n int) []engine.Frame {
	frames := make([]engine.Frame, n)
	for k := range frames {
		frames[k] = Head(start+k, 0, 0)
	}
	return frames
}

// Nods returns n frames of a 2 Hz pitch oscillation of amplitude amp degrees.
func Nods(start, n int, amp float64) []engine.Frame {
	frames := make([]engine.Frame, n)
	for k := range frames {
		i := start + k
		frames[k] = Head(i, amp*math.Sin(2*math.Pi*2*At(i)), 0)
	}
	return frames
}

// Shake returns a left, right, left, right yaw sweep six frames apart.
func Shake(start int) []engine.Frame {
	yaws := []float64{-15, 15, -15, 15}
	frames := make([]engine.Frame, len(yaws))
	for k, yaw := range yaws {
		frames[k] = Head(start+k*6, 0, yaw)
	}
	return frames
}

// Metronome dips the head below the tempo onset threshold for the first
// third of every beat.
func Metronome(start, beats, framesPerBeat int) []engine.Frame {
	var frames []engine.Frame
	for b := 0; b < beats; b++ {
		for k := 0; k < framesPerBeat; k++ {
			pitch := 0.0
			if k < framesPerBeat/3 {
				pitch = -8
			}
			frames = append(frames, Head(start+b*framesPerBeat+k, pitch, 0))
		}
	}
	return frames
}

// Hands returns n frames each holding hand.
func Hands(start, n int, hand landmark.HandLandmarks) []engine.Frame {
	frames := make([]engine.Frame, n)
	for k := range frames {
		frames[k] = engine.Frame{Timestamp: At(start + k), Hands: []landmark.HandLandmarks{hand}}
	}
	return frames
}

// Looking returns a frame with an explicit gaze flag.
func Looking(i int, looking bool) engine.Frame {
	return engine.Frame{Timestamp: At(i), Looking: &looking}
}

// WriteJSONL writes frames one JSON document per line.
func WriteJSONL(w io.Writer, frames []engine.Frame) error {
	enc := json.NewEncoder(w)
	for _, f := range frames {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
