package motion

// ShakeStage is the progress of a left-right-left or right-left-right
// head shake.
type ShakeStage int

const (
	StageNone ShakeStage = iota
	StageLeftSeen
	StageRightSeen
	StageLeftThenRight
	StageRightThenLeft
)

func (s ShakeStage) String() string {
	switch s {
	case StageLeftSeen:
		return "left"
	case StageRightSeen:
		return "right"
	case StageLeftThenRight:
		return "left_right"
	case StageRightThenLeft:
		return "right_left"
	}
	return "none"
}

// ShakeConfig holds the yaw thresholds in degrees and the timing in
// seconds of the shake machine.
type ShakeConfig struct {
	LeftThreshold  float64 `json:"left_threshold"`
	RightThreshold float64 `json:"right_threshold"`
	// Debounce is the quiet period after a shake during which the machine
	// stays at StageNone.
	Debounce float64 `json:"debounce"`
	// StaleAfter drops a partial shake that made no progress for this
	// long. Zero keeps partial shakes indefinitely. The default matches
	// Debounce.
	StaleAfter float64 `json:"stale_after"`
}

// DefaultShakeConfig returns ±10 degree thresholds with a one second
// debounce.
func DefaultShakeConfig() ShakeConfig {
	return ShakeConfig{
		LeftThreshold:  -10,
		RightThreshold: 10,
		Debounce:       1.0,
		StaleAfter:     1.0,
	}
}

// ShakeMachine recognizes a full side-to-side-to-side head shake from yaw
// threshold crossings.
type ShakeMachine struct {
	cfg ShakeConfig

	stage    ShakeStage
	stageAt  float64
	lastFire float64
	hasFired bool
}

// NewShakeMachine creates a ShakeMachine at StageNone.
func NewShakeMachine(cfg ShakeConfig) *ShakeMachine {
	return &ShakeMachine{cfg: cfg}
}

// Stage returns the current stage.
func (m *ShakeMachine) Stage() ShakeStage {
	return m.stage
}

// Update feeds one yaw sample taken at time now and reports whether it
// completed a shake.
func (m *ShakeMachine) Update(yaw, now float64) bool {
	if m.hasFired && now-m.lastFire <= m.cfg.Debounce {
		m.stage = StageNone
		return false
	}
	if m.stage != StageNone && m.cfg.StaleAfter > 0 && now-m.stageAt > m.cfg.StaleAfter {
		m.stage = StageNone
	}

	left := yaw < m.cfg.LeftThreshold
	right := yaw > m.cfg.RightThreshold

	switch m.stage {
	case StageNone:
		if left {
			m.advance(StageLeftSeen, now)
		} else if right {
			m.advance(StageRightSeen, now)
		}
	case StageLeftSeen:
		if right {
			m.advance(StageLeftThenRight, now)
		}
	case StageRightSeen:
		if left {
			m.advance(StageRightThenLeft, now)
		}
	case StageLeftThenRight:
		if left {
			return m.fire(now)
		}
	case StageRightThenLeft:
		if right {
			return m.fire(now)
		}
	}
	return false
}

func (m *ShakeMachine) advance(stage ShakeStage, now float64) {
	m.stage = stage
	m.stageAt = now
}

func (m *ShakeMachine) fire(now float64) bool {
	m.stage = StageNone
	m.lastFire = now
	m.hasFired = true
	return true
}

// Reset returns the machine to StageNone and forgets the last shake.
func (m *ShakeMachine) Reset() {
	*m = ShakeMachine{cfg: m.cfg}
}
