package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ayusman/gesturecue/internal/edge"
	"github.com/ayusman/gesturecue/internal/motion"
	"github.com/ayusman/gesturecue/internal/pose"
	"github.com/ayusman/gesturecue/internal/signal"
	"github.com/ayusman/gesturecue/internal/tempo"
)

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid engine config")
	// ErrUnknownMode is returned for a mode name that is not recognized.
	ErrUnknownMode = errors.New("unknown mode")
)

// Mode selects which head gestures the engine listens for.
type Mode string

const (
	// ModeApproval reports approval nods and shakes.
	ModeApproval Mode = "approval"
	// ModeTempo turns nods into a running tempo estimate.
	ModeTempo Mode = "tempo"
	// ModeTransport turns conducting strokes into start/stop toggles.
	ModeTransport Mode = "transport"
)

// Modes lists every mode.
var Modes = []Mode{ModeApproval, ModeTempo, ModeTransport}

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// NodStrategy selects how approval nods are recognized.
type NodStrategy string

const (
	// NodOscillation fires when the classifier reports Nodding.
	NodOscillation NodStrategy = "oscillation"
	// NodThreshold fires on a single deep nod crossing both pitch
	// thresholds.
	NodThreshold NodStrategy = "threshold"
)

// SmoothingConfig selects the head-angle filter.
type SmoothingConfig struct {
	Mode signal.SmoothingMode `json:"mode"`
	// Width is the moving-average window in samples.
	Width int `json:"width"`
	// Alpha is the exponential filter coefficient.
	Alpha float64 `json:"alpha"`
}

// ApprovalNodConfig configures approval nod recognition.
type ApprovalNodConfig struct {
	Strategy NodStrategy        `json:"strategy"`
	Onset    motion.OnsetConfig `json:"onset"`
	Gate     edge.Config        `json:"gate"`
}

// Config is the full set of engine thresholds. It is a plain value; an
// Engine copies it on construction.
type Config struct {
	Mode       Mode                    `json:"mode"`
	Smoothing  SmoothingConfig         `json:"smoothing"`
	Classifier motion.ClassifierConfig `json:"classifier"`
	Shake      motion.ShakeConfig      `json:"shake"`
	Nod        ApprovalNodConfig       `json:"approval_nod"`
	TempoOnset motion.OnsetConfig      `json:"tempo_onset"`
	Tempo      tempo.Config            `json:"tempo"`
	Beat       motion.BeatConfig       `json:"beat"`
	Gaze       pose.GazeConfig         `json:"gaze"`
	Hand       pose.HandConfig         `json:"hand"`
	EyeContact edge.Config             `json:"eye_contact"`
	ThumbsUp   edge.Config             `json:"thumbs_up"`
	ThumbsDown edge.Config             `json:"thumbs_down"`
	OpenPalm   edge.Config             `json:"open_palm"`
}

// DefaultConfig returns the approval preset.
func DefaultConfig() Config {
	return ApprovalConfig()
}

// ApprovalConfig returns thresholds for yes/no approval: a short window,
// firm amplitude and one approval per second at most.
func ApprovalConfig() Config {
	return Config{
		Mode: ModeApproval,
		Smoothing: SmoothingConfig{
			Mode:  signal.SmoothMovingAverage,
			Width: 5,
			Alpha: 0.3,
		},
		Classifier: motion.DefaultClassifierConfig(),
		Shake:      motion.DefaultShakeConfig(),
		Nod: ApprovalNodConfig{
			Strategy: NodOscillation,
			Onset:    motion.ApprovalOnsetConfig(),
			Gate:     edge.Config{RiseFrames: 3, FallDecay: 1, Cooldown: 1.0, Rearm: edge.RearmOnRelease},
		},
		TempoOnset: motion.TempoOnsetConfig(),
		Tempo:      tempo.DefaultConfig(),
		Beat:       motion.DefaultBeatConfig(),
		Gaze:       pose.DefaultGazeConfig(),
		Hand:       pose.DefaultHandConfig(),
		EyeContact: edge.Config{RiseFrames: 1, Rearm: edge.RearmOnRelease},
		ThumbsUp:   edge.Config{RiseFrames: 15, FallDecay: 2, Rearm: edge.RearmManual},
		ThumbsDown: edge.Config{RiseFrames: 15, FallDecay: 2, Rearm: edge.RearmManual},
		OpenPalm:   edge.Config{RiseFrames: 5, FallDecay: 2, Rearm: edge.RearmOnRelease},
	}
}

// TempoConfig returns thresholds for nod tempo tracking: a longer, more
// sensitive window, exponential smoothing and a generous idle timeout.
func TempoConfig() Config {
	cfg := ApprovalConfig()
	cfg.Mode = ModeTempo
	cfg.Smoothing.Mode = signal.SmoothExponential
	cfg.Smoothing.Alpha = 0.35
	cfg.Classifier.Window = 30
	cfg.Classifier.NodAmplitude = 1.5
	cfg.Classifier.ShakeAmplitude = 1.5
	cfg.Tempo.IdleTimeout = 3.45
	return cfg
}

// TransportConfig returns thresholds for conducting start/stop.
func TransportConfig() Config {
	cfg := ApprovalConfig()
	cfg.Mode = ModeTransport
	return cfg
}

// PresetFor returns the preset matching mode.
func PresetFor(mode Mode) (Config, error) {
	switch mode {
	case ModeApproval:
		return ApprovalConfig(), nil
	case ModeTempo:
		return TempoConfig(), nil
	case ModeTransport:
		return TransportConfig(), nil
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Validate checks that every threshold set is usable.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if !c.Smoothing.Mode.Valid() {
		return fmt.Errorf("%w: unknown smoothing mode %q", ErrInvalidConfig, c.Smoothing.Mode)
	}
	if c.Smoothing.Mode == signal.SmoothMovingAverage && c.Smoothing.Width < 1 {
		return fmt.Errorf("%w: smoothing width must be at least 1", ErrInvalidConfig)
	}
	if c.Smoothing.Mode == signal.SmoothExponential && (c.Smoothing.Alpha <= 0 || c.Smoothing.Alpha > 1) {
		return fmt.Errorf("%w: smoothing alpha must be within (0, 1]", ErrInvalidConfig)
	}
	if c.Classifier.Window < 2 {
		return fmt.Errorf("%w: classifier window must be at least 2", ErrInvalidConfig)
	}
	if c.Classifier.Dominance <= 0 {
		return fmt.Errorf("%w: classifier dominance must be positive", ErrInvalidConfig)
	}
	if c.Shake.LeftThreshold >= c.Shake.RightThreshold {
		return fmt.Errorf("%w: shake thresholds out of order", ErrInvalidConfig)
	}
	if c.Nod.Onset.Down >= c.Nod.Onset.Up || c.TempoOnset.Down >= c.TempoOnset.Up {
		return fmt.Errorf("%w: nod onset down threshold must be below up threshold", ErrInvalidConfig)
	}
	switch c.Nod.Strategy {
	case NodOscillation:
	case NodThreshold:
		if c.Nod.Gate.RiseFrames != 1 {
			return fmt.Errorf("%w: threshold nods fire on a single frame, rise_frames must be 1", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown nod strategy %q", ErrInvalidConfig, c.Nod.Strategy)
	}
	if c.Gaze.YawMin >= c.Gaze.YawMax || c.Gaze.PitchMin >= c.Gaze.PitchMax {
		return fmt.Errorf("%w: gaze bounds out of order", ErrInvalidConfig)
	}
	if c.Beat.Alpha <= 0 || c.Beat.Alpha > 1 {
		return fmt.Errorf("%w: beat alpha must be within (0, 1]", ErrInvalidConfig)
	}

	gates := map[string]edge.Config{
		"approval_nod": c.Nod.Gate,
		"eye_contact":  c.EyeContact,
		"thumbs_up":    c.ThumbsUp,
		"thumbs_down":  c.ThumbsDown,
		"open_palm":    c.OpenPalm,
	}
	for name, g := range gates {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}
	if err := c.Tempo.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ParseConfig decodes a JSON config. Fields that are absent keep the value
// of the preset named by the "mode" field, or of DefaultConfig when no mode
// is given.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Mode Mode `json:"mode"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if head.Mode != "" {
		preset, err := PresetFor(head.Mode)
		if err != nil {
			return Config{}, err
		}
		cfg = preset
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a JSON config file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}
