// Package pose holds the stateless geometric predicates evaluated on a
// single frame of landmarks: finger curl, thumbs up/down, open palm, eye
// contact and head angles. Degenerate geometry always yields the negative
// answer.
package pose

import (
	"math"

	"github.com/ayusman/gesturecue/internal/landmark"
)

// HandConfig holds the thresholds of the hand predicates.
type HandConfig struct {
	// FoldedCurl is the curl score at which a finger counts as folded.
	FoldedCurl float64 `json:"folded_curl"`
	// MinFolded is how many of the four fingers must be folded.
	MinFolded int `json:"min_folded"`
	// MinMeanCurl is the minimum average curl of a fist.
	MinMeanCurl float64 `json:"min_mean_curl"`
	// ThumbExtendedAngle is the IP angle in degrees above which the thumb
	// counts as straight.
	ThumbExtendedAngle float64 `json:"thumb_extended_angle"`
	// ThumbVertical is the minimum |vertical| component of the unit thumb
	// direction.
	ThumbVertical float64 `json:"thumb_vertical"`
	// ThumbDominance scales the horizontal component the vertical one must
	// exceed.
	ThumbDominance float64 `json:"thumb_dominance"`
	// KnuckleMargin is how far, in hand scales, the thumb tip must sit
	// beyond the knuckle line. Zero disables the check.
	KnuckleMargin float64 `json:"knuckle_margin"`
	// OpenPalmAngle is the PIP angle every finger must exceed.
	OpenPalmAngle float64 `json:"open_palm_angle"`
	// OpenPalmMaxCurl caps the average curl of an open palm.
	OpenPalmMaxCurl float64 `json:"open_palm_max_curl"`
	// OpenPalmSpan is the minimum index-to-pinky tip distance in hand
	// scales.
	OpenPalmSpan float64 `json:"open_palm_span"`
}

// DefaultHandConfig returns the standard hand thresholds.
func DefaultHandConfig() HandConfig {
	return HandConfig{
		FoldedCurl:         0.45,
		MinFolded:          3,
		MinMeanCurl:        0.40,
		ThumbExtendedAngle: 150,
		ThumbVertical:      0.35,
		ThumbDominance:     0.8,
		KnuckleMargin:      0.06,
		OpenPalmAngle:      160,
		OpenPalmMaxCurl:    0.20,
		OpenPalmSpan:       0.28,
	}
}

// JointAngle returns the angle ABC at b in degrees, measured in the image
// plane. Zero-length segments give 180.
func JointAngle(a, b, c landmark.Point3D) float64 {
	v1 := a.Sub(b)
	v2 := c.Sub(b)
	n1, n2 := v1.Norm2D(), v2.Norm2D()
	if n1 < 1e-9 || n2 < 1e-9 {
		return 180
	}
	cos := (v1.X*v2.X + v1.Y*v2.Y) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// PIPAngle returns the angle at a finger's middle joint.
func PIPAngle(h *landmark.HandLandmarks, f landmark.Finger) float64 {
	return JointAngle(h.Points[f.MCP], h.Points[f.PIP], h.Points[f.DIP])
}

// Curl maps a PIP angle onto [0, 1]: 180 degrees is straight, 60 or less
// is fully curled.
func Curl(angle float64) float64 {
	return math.Max(0, math.Min(1, (180-angle)/120))
}

// FingerCurls returns the curl of each non-thumb finger, index to pinky.
func FingerCurls(h *landmark.HandLandmarks) [4]float64 {
	var curls [4]float64
	for i, f := range landmark.Fingers {
		curls[i] = Curl(PIPAngle(h, f))
	}
	return curls
}

func mean4(xs [4]float64) float64 {
	return (xs[0] + xs[1] + xs[2] + xs[3]) / 4
}

// FingersFolded reports whether the hand makes a fist, ignoring the thumb.
func FingersFolded(h *landmark.HandLandmarks, cfg HandConfig) bool {
	curls := FingerCurls(h)
	folded := 0
	for _, c := range curls {
		if c >= cfg.FoldedCurl {
			folded++
		}
	}
	return folded >= cfg.MinFolded && mean4(curls) >= cfg.MinMeanCurl
}

// ThumbExtended reports whether the thumb is straight at its IP joint.
func ThumbExtended(h *landmark.HandLandmarks, cfg HandConfig) bool {
	angle := JointAngle(h.Points[landmark.ThumbMCP], h.Points[landmark.ThumbIP], h.Points[landmark.ThumbTip])
	return angle > cfg.ThumbExtendedAngle
}

// Thumb is the result of the thumbs up/down predicate.
type Thumb int

const (
	ThumbNone Thumb = iota
	ThumbUp
	ThumbDown
)

func (t Thumb) String() string {
	switch t {
	case ThumbUp:
		return "up"
	case ThumbDown:
		return "down"
	}
	return "none"
}

// ThumbDirection classifies a fist with an extended thumb as thumbs up or
// thumbs down. Anything else is ThumbNone.
func ThumbDirection(h *landmark.HandLandmarks, cfg HandConfig) Thumb {
	if !FingersFolded(h, cfg) || !ThumbExtended(h, cfg) {
		return ThumbNone
	}

	tip := h.Points[landmark.ThumbTip]
	dir := tip.Sub(h.Points[landmark.ThumbMCP])
	n := dir.Norm2D()
	if n < 1e-9 {
		return ThumbNone
	}
	// Image y grows downwards.
	up := -dir.Y / n
	side := dir.X / n
	if math.Abs(up) <= cfg.ThumbVertical || math.Abs(up) <= math.Abs(side)*cfg.ThumbDominance {
		return ThumbNone
	}

	knuckleY := (h.Points[landmark.IndexMCP].Y + h.Points[landmark.PinkyMCP].Y) / 2
	margin := cfg.KnuckleMargin * h.Scale()
	switch {
	case up > 0 && tip.Y < knuckleY-margin:
		return ThumbUp
	case up < 0 && tip.Y > knuckleY+margin:
		return ThumbDown
	}
	return ThumbNone
}

// IsOpenPalm reports whether every finger is extended and spread.
func IsOpenPalm(h *landmark.HandLandmarks, cfg HandConfig) bool {
	var curls [4]float64
	for i, f := range landmark.Fingers {
		angle := PIPAngle(h, f)
		if angle <= cfg.OpenPalmAngle {
			return false
		}
		curls[i] = Curl(angle)
	}
	if mean4(curls) > cfg.OpenPalmMaxCurl {
		return false
	}
	span := h.Points[landmark.IndexTip].Sub(h.Points[landmark.PinkyTip]).Norm2D()
	return span/h.Scale() >= cfg.OpenPalmSpan
}
