package motion

// OnsetConfig holds the pitch thresholds in degrees of a nod onset
// detector. Down must be below Up.
type OnsetConfig struct {
	// Down is the pitch below which the head counts as nodding down.
	Down float64 `json:"down"`
	// Up is the pitch above which a started nod counts as complete.
	Up float64 `json:"up"`
}

// ApprovalOnsetConfig returns deep-nod thresholds for yes/no approval.
func ApprovalOnsetConfig() OnsetConfig {
	return OnsetConfig{Down: -12, Up: -4}
}

// TempoOnsetConfig returns shallow-nod thresholds for beat tracking.
func TempoOnsetConfig() OnsetConfig {
	return OnsetConfig{Down: -5, Up: -0.5}
}

// NodOnset reports the moment a nod completes: pitch drops below Down and
// then rises back above Up.
type NodOnset struct {
	cfg  OnsetConfig
	down bool
}

// NewNodOnset creates a NodOnset.
func NewNodOnset(cfg OnsetConfig) *NodOnset {
	return &NodOnset{cfg: cfg}
}

// Update feeds one pitch sample and reports whether a nod just completed.
func (n *NodOnset) Update(pitch float64) bool {
	if !n.down {
		if pitch < n.cfg.Down {
			n.down = true
		}
		return false
	}
	if pitch > n.cfg.Up {
		n.down = false
		return true
	}
	return false
}

// Nodding reports whether a nod has started but not completed.
func (n *NodOnset) Nodding() bool {
	return n.down
}

// Reset forgets a nod in progress.
func (n *NodOnset) Reset() {
	n.down = false
}
