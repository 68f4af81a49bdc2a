package pose

import (
	"math"

	"github.com/ayusman/gesturecue/internal/landmark"
)

// GazeConfig bounds the facial proportions of a face turned towards the
// camera. Both ranges are exclusive.
type GazeConfig struct {
	// YawMin and YawMax bound the nose-to-left-cheek over
	// nose-to-right-cheek horizontal distance ratio.
	YawMin float64 `json:"yaw_min"`
	YawMax float64 `json:"yaw_max"`
	// PitchMin and PitchMax bound the forehead-to-nose over nose-to-chin
	// vertical distance ratio.
	PitchMin float64 `json:"pitch_min"`
	PitchMax float64 `json:"pitch_max"`
}

// DefaultGazeConfig returns the standard eye-contact bounds.
func DefaultGazeConfig() GazeConfig {
	return GazeConfig{YawMin: 0.7, YawMax: 1.3, PitchMin: 0.85, PitchMax: 1.4}
}

// LookingAtCamera reports whether the face is roughly frontal. A zero
// denominator in either ratio counts as not looking.
func LookingAtCamera(f *landmark.FaceLandmarks, cfg GazeConfig) bool {
	dl := math.Abs(f.Nose.X - f.LeftCheek.X)
	dr := math.Abs(f.Nose.X - f.RightCheek.X)
	if dr == 0 {
		return false
	}
	yaw := dl / dr
	if yaw <= cfg.YawMin || yaw >= cfg.YawMax {
		return false
	}

	below := f.Chin.Y - f.Nose.Y
	if below == 0 {
		return false
	}
	pitch := (f.Nose.Y - f.Forehead.Y) / below
	return pitch > cfg.PitchMin && pitch < cfg.PitchMax
}

// HeadAngles estimates head pitch and yaw in degrees from the face
// landmarks. Yaw is the depth tilt of the eye line, pitch the depth tilt of
// the forehead-to-chin line. ok is false when either line has zero length.
func HeadAngles(f *landmark.FaceLandmarks) (pitch, yaw float64, ok bool) {
	eyes := f.RightEye.Sub(f.LeftEye)
	vert := f.Chin.Sub(f.Forehead)
	ne, nv := eyes.Norm(), vert.Norm()
	if ne < 1e-9 || nv < 1e-9 {
		return 0, 0, false
	}

	yaw = math.Atan2(eyes.Z/ne, eyes.X/ne) * 180 / math.Pi
	pitch = math.Atan2(vert.Z/nv, vert.Y/nv) * 180 / math.Pi
	return pitch, yaw, true
}
