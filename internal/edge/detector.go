// Package edge turns a noisy per-frame boolean into discrete "fired"
// events with rise hysteresis, fall decay, an optional time cooldown and an
// arm/disarm gate.
package edge

import (
	"errors"
	"fmt"
	"math"
)

// Rearm controls what happens to a detector after it fires.
type Rearm string

const (
	// RearmManual disarms the detector on fire; only Arm re-enables it.
	RearmManual Rearm = "manual"
	// RearmOnRelease latches after a fire until the predicate goes false,
	// then counts again on its own.
	RearmOnRelease Rearm = "on_release"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid edge config")

// Config parameterizes a Detector.
type Config struct {
	// RiseFrames is the count of true frames required to fire.
	RiseFrames int `json:"rise_frames"`
	// FallDecay is subtracted from the count on each false frame. Zero or
	// below resets the count outright.
	FallDecay int `json:"fall_decay"`
	// Cooldown is the minimum time in seconds between two fires.
	Cooldown float64 `json:"cooldown"`
	Rearm    Rearm   `json:"rearm"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.RiseFrames < 1 {
		return fmt.Errorf("%w: rise_frames must be at least 1, got %d", ErrInvalidConfig, c.RiseFrames)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown must not be negative", ErrInvalidConfig)
	}
	switch c.Rearm {
	case RearmManual, RearmOnRelease:
	default:
		return fmt.Errorf("%w: unknown rearm policy %q", ErrInvalidConfig, c.Rearm)
	}
	return nil
}

// State is a snapshot of a detector's counters.
type State struct {
	ConsecutiveTrue  int  `json:"consecutive_true"`
	ConsecutiveFalse int  `json:"consecutive_false"`
	Armed            bool `json:"armed"`
}

// Detector fires at most once per arming when its predicate has been true
// for enough frames. Create with New; the zero value is not usable.
type Detector struct {
	cfg Config

	count    int
	falses   int
	armed    bool
	latched  bool
	lastFire float64
	hasFired bool
}

// New creates an armed Detector.
func New(cfg Config) *Detector {
	if cfg.Rearm == "" {
		cfg.Rearm = RearmManual
	}
	return &Detector{cfg: cfg, armed: true}
}

// Update feeds one frame's predicate value observed at time now and
// reports whether the detector fired on this frame.
func (d *Detector) Update(value bool, now float64) bool {
	if value {
		d.falses = 0
	} else {
		d.falses++
	}

	if !d.armed {
		d.count = 0
		return false
	}

	if d.latched {
		if !value {
			d.latched = false
			d.count = 0
		}
		return false
	}

	if !value {
		if d.cfg.FallDecay <= 0 {
			d.count = 0
		} else {
			d.count = max(0, d.count-d.cfg.FallDecay)
		}
		return false
	}

	d.count = min(d.count+1, max(d.cfg.RiseFrames, 1))
	if d.count < d.cfg.RiseFrames || !d.cooledDown(now) {
		return false
	}

	d.count = 0
	d.lastFire = now
	d.hasFired = true
	if d.cfg.Rearm == RearmOnRelease {
		d.latched = true
	} else {
		d.armed = false
	}
	return true
}

func (d *Detector) cooledDown(now float64) bool {
	if !d.hasFired || d.cfg.Cooldown <= 0 {
		return true
	}
	// A clock that runs backwards never satisfies the cooldown.
	return now-d.lastFire >= d.cfg.Cooldown
}

// Arm enables the detector and clears its count.
func (d *Detector) Arm() {
	d.armed = true
	d.latched = false
	d.count = 0
}

// Disarm blocks the detector from firing until Arm is called.
func (d *Detector) Disarm() {
	d.armed = false
	d.latched = false
	d.count = 0
}

// Armed reports whether the detector can fire.
func (d *Detector) Armed() bool {
	return d.armed
}

// LastFire returns the time of the most recent fire.
func (d *Detector) LastFire() (float64, bool) {
	if !d.hasFired {
		return math.Inf(-1), false
	}
	return d.lastFire, true
}

// State returns a snapshot of the detector's counters.
func (d *Detector) State() State {
	return State{
		ConsecutiveTrue:  d.count,
		ConsecutiveFalse: d.falses,
		Armed:            d.armed,
	}
}

// Reset clears counters and fire history and re-arms the detector.
func (d *Detector) Reset() {
	*d = Detector{cfg: d.cfg, armed: true}
}
