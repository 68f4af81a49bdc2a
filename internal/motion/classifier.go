// Package motion classifies head movement: oscillation into nodding or
// shaking, explicit left-right-left shakes, threshold nod onsets and
// velocity beats.
package motion

import (
	"github.com/ayusman/gesturecue/internal/signal"
)

// State is the classified head motion for the current window.
type State string

const (
	Idle    State = "idle"
	Nodding State = "nodding"
	Shaking State = "shaking"
)

// ClassifierConfig holds the oscillation thresholds. Angles are degrees.
type ClassifierConfig struct {
	// Window is the nominal number of samples classified. Fewer than half
	// a window classifies as Idle.
	Window int `json:"window"`
	// DeltaThreshold is the per-frame change that counts as movement.
	DeltaThreshold float64 `json:"delta_threshold"`
	// NodAmplitude and ShakeAmplitude are the minimum standard deviation
	// of the dominant axis.
	NodAmplitude   float64 `json:"nod_amplitude"`
	ShakeAmplitude float64 `json:"shake_amplitude"`
	// MinZeroCrossings is the minimum count of sign changes of the
	// mean-centered dominant axis.
	MinZeroCrossings int `json:"min_zero_crossings"`
	// MinMovingRatio is the share of frames that must be moving.
	MinMovingRatio float64 `json:"min_moving_ratio"`
	// Dominance is the fraction of the other axis' deviation that the
	// dominant axis must exceed.
	Dominance float64 `json:"dominance"`
}

// DefaultClassifierConfig returns thresholds tuned for a 15-frame window at
// roughly 30 fps.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Window:           15,
		DeltaThreshold:   0.5,
		NodAmplitude:     2.0,
		ShakeAmplitude:   2.0,
		MinZeroCrossings: 1,
		MinMovingRatio:   0.4,
		Dominance:        0.8,
	}
}

// Features are the per-axis statistics a classification is based on.
type Features struct {
	PitchStd      float64 `json:"pitch_std"`
	YawStd        float64 `json:"yaw_std"`
	PitchCrossing int     `json:"pitch_crossings"`
	YawCrossing   int     `json:"yaw_crossings"`
	PitchMoving   float64 `json:"pitch_moving"`
	YawMoving     float64 `json:"yaw_moving"`
}

// Classifier turns pitch and yaw windows into a State. It carries no state
// of its own; the result depends only on the windows passed in.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a Classifier.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the classifier thresholds.
func (c *Classifier) Config() ClassifierConfig {
	return c.cfg
}

// Analyze computes the statistics of equally long pitch and yaw windows.
// Longer inputs are trimmed to their newest common suffix.
func (c *Classifier) Analyze(pitch, yaw []float64) Features {
	n := min(len(pitch), len(yaw))
	pitch = signal.Center(pitch[len(pitch)-n:])
	yaw = signal.Center(yaw[len(yaw)-n:])

	return Features{
		PitchStd:      signal.PopStdDev(pitch),
		YawStd:        signal.PopStdDev(yaw),
		PitchCrossing: signal.ZeroCrossings(pitch),
		YawCrossing:   signal.ZeroCrossings(yaw),
		PitchMoving:   signal.FractionAbove(signal.AbsDiff(pitch), c.cfg.DeltaThreshold),
		YawMoving:     signal.FractionAbove(signal.AbsDiff(yaw), c.cfg.DeltaThreshold),
	}
}

// Ready reports whether n samples are enough to classify.
func (c *Classifier) Ready(n int) bool {
	return n >= 2 && n >= c.cfg.Window/2
}

// Classify returns the motion state for the given windows. Mixed or absent
// motion is Idle.
func (c *Classifier) Classify(pitch, yaw []float64) State {
	if !c.Ready(min(len(pitch), len(yaw))) {
		return Idle
	}
	return c.Resolve(c.Analyze(pitch, yaw))
}

// Resolve maps precomputed features to a state.
func (c *Classifier) Resolve(f Features) State {
	nodding := f.PitchStd > c.cfg.NodAmplitude &&
		f.PitchCrossing >= c.cfg.MinZeroCrossings &&
		f.PitchMoving > c.cfg.MinMovingRatio &&
		f.PitchStd > f.YawStd*c.cfg.Dominance
	shaking := f.YawStd > c.cfg.ShakeAmplitude &&
		f.YawCrossing >= c.cfg.MinZeroCrossings &&
		f.YawMoving > c.cfg.MinMovingRatio &&
		f.YawStd > f.PitchStd*c.cfg.Dominance

	switch {
	case nodding && !shaking:
		return Nodding
	case shaking && !nodding:
		return Shaking
	}
	return Idle
}
