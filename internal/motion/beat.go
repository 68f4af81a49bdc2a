package motion

// Beat is a conducting stroke detected from vertical head velocity.
type Beat int

const (
	BeatNone Beat = iota
	// Downbeat is a fast downward head movement.
	Downbeat
	// Upbeat is a fast upward head movement.
	Upbeat
)

func (b Beat) String() string {
	switch b {
	case Downbeat:
		return "downbeat"
	case Upbeat:
		return "upbeat"
	}
	return "none"
}

// BeatConfig parameterizes a BeatDetector. Positions are normalized image
// y (growing downwards), velocities are in image heights per second and
// times are in seconds.
type BeatConfig struct {
	// Alpha is the velocity smoothing coefficient.
	Alpha float64 `json:"alpha"`
	// DownVelocity is the minimum smoothed velocity of a downbeat.
	DownVelocity float64 `json:"down_velocity"`
	// UpVelocity is the maximum (negative) smoothed velocity of an upbeat.
	UpVelocity float64 `json:"up_velocity"`
	// DownRefractory and UpRefractory are the minimum spacing of
	// successive beats of each kind.
	DownRefractory float64 `json:"down_refractory"`
	UpRefractory   float64 `json:"up_refractory"`
	// MinInterval floors the frame interval used for differentiation.
	MinInterval float64 `json:"min_interval"`
}

// DefaultBeatConfig returns thresholds for a webcam at arm's length.
func DefaultBeatConfig() BeatConfig {
	return BeatConfig{
		Alpha:          0.35,
		DownVelocity:   0.30,
		UpVelocity:     -0.80,
		DownRefractory: 0.35,
		UpRefractory:   0.90,
		MinInterval:    1e-3,
	}
}

// BeatDetector differentiates a vertical position track and reports
// downbeats and upbeats with per-kind refractory periods.
type BeatDetector struct {
	cfg BeatConfig

	primed   bool
	prevY    float64
	prevT    float64
	velocity float64

	lastDown, lastUp float64
	hasDown, hasUp   bool
}

// NewBeatDetector creates a BeatDetector.
func NewBeatDetector(cfg BeatConfig) *BeatDetector {
	return &BeatDetector{cfg: cfg}
}

// Velocity returns the current smoothed velocity.
func (b *BeatDetector) Velocity() float64 {
	return b.velocity
}

// Update feeds a position observed at time now. Samples that do not move
// time forward are ignored.
func (b *BeatDetector) Update(y, now float64) Beat {
	if !b.primed {
		b.primed = true
		b.prevY, b.prevT = y, now
		return BeatNone
	}
	if now <= b.prevT {
		return BeatNone
	}

	dt := max(now-b.prevT, b.cfg.MinInterval)
	raw := (y - b.prevY) / dt
	b.velocity = b.cfg.Alpha*raw + (1-b.cfg.Alpha)*b.velocity
	b.prevY, b.prevT = y, now

	if b.velocity <= b.cfg.UpVelocity && (!b.hasUp || now-b.lastUp >= b.cfg.UpRefractory) {
		b.lastUp, b.hasUp = now, true
		return Upbeat
	}
	if b.velocity >= b.cfg.DownVelocity && (!b.hasDown || now-b.lastDown >= b.cfg.DownRefractory) {
		b.lastDown, b.hasDown = now, true
		return Downbeat
	}
	return BeatNone
}

// Reset forgets all history.
func (b *BeatDetector) Reset() {
	*b = BeatDetector{cfg: b.cfg}
}
