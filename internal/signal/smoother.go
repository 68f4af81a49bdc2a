package signal

// SmoothingMode selects how angle signals are filtered before
// classification.
type SmoothingMode string

const (
	// SmoothMovingAverage applies a same-length sliding mean to the buffered
	// window each time it is classified.
	SmoothMovingAverage SmoothingMode = "moving_average"
	// SmoothExponential filters each sample as it arrives.
	SmoothExponential SmoothingMode = "exponential"
	// SmoothNone leaves samples untouched.
	SmoothNone SmoothingMode = "none"
)

// Valid reports whether m is a known smoothing mode.
func (m SmoothingMode) Valid() bool {
	switch m {
	case SmoothMovingAverage, SmoothExponential, SmoothNone:
		return true
	}
	return false
}

// Exponential is a single-pole low-pass filter:
// y[t] = alpha*x[t] + (1-alpha)*y[t-1], seeded with the first input.
type Exponential struct {
	alpha  float64
	value  float64
	primed bool
}

// NewExponential creates a filter with the given alpha, clamped to (0, 1].
func NewExponential(alpha float64) *Exponential {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return &Exponential{alpha: alpha}
}

// Update feeds x and returns the filtered value.
func (e *Exponential) Update(x float64) float64 {
	if !e.primed {
		e.value = x
		e.primed = true
		return e.value
	}
	e.value = e.alpha*x + (1-e.alpha)*e.value
	return e.value
}

// Value returns the last filtered value, if any input has been seen.
func (e *Exponential) Value() (float64, bool) {
	return e.value, e.primed
}

// Alpha returns the filter coefficient.
func (e *Exponential) Alpha() float64 {
	return e.alpha
}

// Reset forgets the filter state.
func (e *Exponential) Reset() {
	e.value = 0
	e.primed = false
}

// MovingAverage returns the centered sliding mean of xs with the given
// width. The output has the same length as the input. Near the edges the
// mean is taken over the overlapping samples only, so edge values are not
// pulled toward zero as they are by a zero-padded "same" convolution that
// divides every output by width. Thresholds tuned against zero-padded
// smoothing see slightly larger edge magnitudes here. Inputs shorter than
// the width, and widths below two, are returned unchanged.
func MovingAverage(xs []float64, width int) []float64 {
	out := make([]float64, len(xs))
	if width < 2 || len(xs) < width {
		copy(out, xs)
		return out
	}

	prefix := make([]float64, len(xs)+1)
	for i, x := range xs {
		prefix[i+1] = prefix[i] + x
	}

	left := (width - 1) / 2
	right := width - 1 - left
	for i := range xs {
		lo := max(i-left, 0)
		hi := min(i+right, len(xs)-1)
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return out
}
