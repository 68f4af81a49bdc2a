// Package tempo estimates a beat rate from the timestamps of repeated
// gestures such as nods.
package tempo

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/gesturecue/internal/signal"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid tempo config")

// Config parameterizes an Estimator. Times are in seconds.
type Config struct {
	// HistorySize is the number of onsets retained.
	HistorySize int `json:"history_size"`
	// MinOnsets is the number of onsets needed before an estimate exists.
	MinOnsets int `json:"min_onsets"`
	// Window is how many of the newest onsets feed an estimate.
	Window int `json:"window"`
	// MinBPM and MaxBPM bound the reported tempo. MaxBPM must be at least
	// twice MinBPM so that octave folding always lands inside the band.
	MinBPM float64 `json:"min_bpm"`
	MaxBPM float64 `json:"max_bpm"`
	// IdleTimeout clears the estimate and history when no onset arrives
	// for this long.
	IdleTimeout float64 `json:"idle_timeout"`
	// MinInterval drops inter-onset intervals this short or shorter as
	// detector jitter. Long gaps need no bound: IdleTimeout already resets
	// the history.
	MinInterval float64 `json:"min_interval"`
}

// DefaultConfig returns the standard nod tempo settings.
func DefaultConfig() Config {
	return Config{
		HistorySize: 6,
		MinOnsets:   3,
		Window:      5,
		MinBPM:      60,
		MaxBPM:      180,
		IdleTimeout: 2.0,
		MinInterval: 0.05,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.HistorySize < 2:
		return fmt.Errorf("%w: history_size must be at least 2", ErrInvalidConfig)
	case c.MinOnsets < 2 || c.MinOnsets > c.HistorySize:
		return fmt.Errorf("%w: min_onsets must be within [2, history_size]", ErrInvalidConfig)
	case c.Window < 2 || c.Window > c.HistorySize:
		return fmt.Errorf("%w: window must be within [2, history_size]", ErrInvalidConfig)
	case c.MinBPM <= 0 || c.MaxBPM < 2*c.MinBPM:
		return fmt.Errorf("%w: need 0 < min_bpm and max_bpm >= 2*min_bpm, got [%g, %g]", ErrInvalidConfig, c.MinBPM, c.MaxBPM)
	case c.IdleTimeout <= 0:
		return fmt.Errorf("%w: idle_timeout must be positive", ErrInvalidConfig)
	case c.MinInterval < 0 || c.MinInterval >= c.IdleTimeout:
		return fmt.Errorf("%w: min_interval must be within [0, idle_timeout)", ErrInvalidConfig)
	}
	return nil
}

// Estimate is a tempo reading.
type Estimate struct {
	BPM        float64 `json:"bpm"`
	ComputedAt float64 `json:"computed_at"`
}

// Estimator accumulates onsets and reports the median-interval tempo.
type Estimator struct {
	cfg Config

	onsets   *signal.Buffer[float64]
	estimate Estimate
	valid    bool
}

// NewEstimator creates an Estimator with no onsets.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{
		cfg:    cfg,
		onsets: signal.NewBuffer[float64](cfg.HistorySize),
	}
}

// RecordOnset adds an onset at time t and returns the updated estimate, if
// there are enough onsets for one. Onsets that do not move time forward are
// ignored.
func (e *Estimator) RecordOnset(t float64) (Estimate, bool) {
	e.Expire(t)

	if last, ok := e.onsets.Last(); ok && t <= last {
		return e.Estimate()
	}
	e.onsets.Push(t)

	if e.onsets.Len() < e.cfg.MinOnsets {
		return Estimate{}, false
	}

	bpm, ok := e.compute()
	if !ok {
		return e.Estimate()
	}
	e.estimate = Estimate{BPM: bpm, ComputedAt: t}
	e.valid = true
	return e.estimate, true
}

func (e *Estimator) compute() (float64, bool) {
	recent := e.onsets.Tail(e.cfg.Window)
	intervals := make([]float64, 0, len(recent))
	for i := 1; i < len(recent); i++ {
		dt := recent[i] - recent[i-1]
		if dt > e.cfg.MinInterval {
			intervals = append(intervals, dt)
		}
	}
	if len(intervals) == 0 {
		return 0, false
	}
	return FoldBPM(60/signal.Median(intervals), e.cfg.MinBPM, e.cfg.MaxBPM)
}

// Estimate returns the current estimate, if any.
func (e *Estimator) Estimate() (Estimate, bool) {
	return e.estimate, e.valid
}

// Onsets returns the retained onsets, oldest first.
func (e *Estimator) Onsets() []float64 {
	return e.onsets.Slice()
}

// Expire clears all state when the newest onset is older than the idle
// timeout at time now. It reports whether an estimate was dropped.
func (e *Estimator) Expire(now float64) bool {
	last, ok := e.onsets.Last()
	if !ok || now-last <= e.cfg.IdleTimeout {
		return false
	}
	dropped := e.valid
	e.Reset()
	return dropped
}

// Reset drops all onsets and the estimate.
func (e *Estimator) Reset() {
	e.onsets.Reset()
	e.estimate = Estimate{}
	e.valid = false
}

// FoldBPM moves bpm into [minBPM, maxBPM] by repeated halving or doubling.
// It fails for non-positive or non-finite input and for a band narrower
// than one octave.
func FoldBPM(bpm, minBPM, maxBPM float64) (float64, bool) {
	if bpm <= 0 || math.IsInf(bpm, 0) || math.IsNaN(bpm) || minBPM <= 0 || maxBPM < 2*minBPM {
		return 0, false
	}
	// One octave per step; every positive finite float64 lies within
	// 2100 octaves of the band.
	for i := 0; i < 2100; i++ {
		switch {
		case bpm > maxBPM:
			bpm /= 2
		case bpm < minBPM:
			bpm *= 2
		default:
			return bpm, true
		}
	}
	return 0, false
}
