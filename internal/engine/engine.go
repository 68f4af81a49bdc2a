// Package engine aggregates the gesture detectors into one per-session
// state machine. ProcessFrame is the single entry point: it consumes one
// frame of landmarks or head angles and returns the events that frame
// completed. An Engine is not safe for concurrent use; the host
// serializes calls.
package engine

import (
	"errors"
	"fmt"

	"github.com/ayusman/gesturecue/internal/edge"
	"github.com/ayusman/gesturecue/internal/landmark"
	"github.com/ayusman/gesturecue/internal/motion"
	"github.com/ayusman/gesturecue/internal/pose"
	"github.com/ayusman/gesturecue/internal/signal"
	"github.com/ayusman/gesturecue/internal/tempo"
)

// ErrNotGated is returned by Arm and Disarm for kinds without a gate.
var ErrNotGated = errors.New("event kind has no gate")

// Engine holds every detector of one monitoring session.
type Engine struct {
	cfg  Config
	mode Mode

	classifier *motion.Classifier
	pitch      *signal.Buffer[float64]
	yaw        *signal.Buffer[float64]
	pitchEMA   *signal.Exponential
	yawEMA     *signal.Exponential
	state      motion.State

	shake         *motion.ShakeMachine
	approvalOnset *motion.NodOnset
	tempoOnset    *motion.NodOnset
	tempo         *tempo.Estimator
	beat          *motion.BeatDetector

	transportArmed bool
	playing        bool

	gates map[Kind]*edge.Detector
}

// New validates cfg and creates an Engine in cfg.Mode.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window := cfg.Classifier.Window
	e := &Engine{
		cfg:           cfg,
		mode:          cfg.Mode,
		classifier:    motion.NewClassifier(cfg.Classifier),
		pitch:         signal.NewBuffer[float64](window),
		yaw:           signal.NewBuffer[float64](window),
		pitchEMA:      signal.NewExponential(cfg.Smoothing.Alpha),
		yawEMA:        signal.NewExponential(cfg.Smoothing.Alpha),
		state:         motion.Idle,
		shake:         motion.NewShakeMachine(cfg.Shake),
		approvalOnset: motion.NewNodOnset(cfg.Nod.Onset),
		tempoOnset:    motion.NewNodOnset(cfg.TempoOnset),
		tempo:         tempo.NewEstimator(cfg.Tempo),
		beat:          motion.NewBeatDetector(cfg.Beat),
		gates: map[Kind]*edge.Detector{
			EyeContactStarted:   edge.New(cfg.EyeContact),
			ThumbsUpConfirmed:   edge.New(cfg.ThumbsUp),
			ThumbsDownConfirmed: edge.New(cfg.ThumbsDown),
			OpenPalmDetected:    edge.New(cfg.OpenPalm),
			ApprovalNod:         edge.New(cfg.Nod.Gate),
		},
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Mode returns the active mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetMode switches mode. Entering a different mode drops any tempo, onset,
// shake and beat progress so the new mode starts from scratch.
func (e *Engine) SetMode(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if mode == e.mode {
		return nil
	}
	e.mode = mode
	e.tempo.Reset()
	e.tempoOnset.Reset()
	e.approvalOnset.Reset()
	e.shake.Reset()
	e.beat.Reset()
	e.transportArmed = false
	e.gates[ApprovalNod].Reset()
	return nil
}

// MotionState returns the most recent head motion classification.
func (e *Engine) MotionState() motion.State {
	return e.state
}

// ShakeStage returns the progress of the shake machine.
func (e *Engine) ShakeStage() motion.ShakeStage {
	return e.shake.Stage()
}

// Tempo returns the current tempo estimate, if any.
func (e *Engine) Tempo() (tempo.Estimate, bool) {
	return e.tempo.Estimate()
}

// Playing reports the transport state toggled by conducting strokes.
func (e *Engine) Playing() bool {
	return e.playing
}

// Arm re-enables the gate behind kind.
func (e *Engine) Arm(kind Kind) error {
	g, ok := e.gates[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotGated, kind)
	}
	g.Arm()
	return nil
}

// Disarm blocks kind until it is armed again.
func (e *Engine) Disarm(kind Kind) error {
	g, ok := e.gates[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotGated, kind)
	}
	g.Disarm()
	return nil
}

// Armed reports whether the gate behind kind can fire. Kinds without a
// gate are always armed.
func (e *Engine) Armed(kind Kind) bool {
	g, ok := e.gates[kind]
	return !ok || g.Armed()
}

// Gate returns a snapshot of the gate behind kind.
func (e *Engine) Gate(kind Kind) (edge.State, bool) {
	g, ok := e.gates[kind]
	if !ok {
		return edge.State{}, false
	}
	return g.State(), true
}

// ProcessFrame runs one frame through every detector and returns the
// events it completed, in detection order. It never fails: missing parts
// of the frame are skipped and degenerate geometry reads as negative.
func (e *Engine) ProcessFrame(f Frame) []Event {
	now := f.Time()

	var events []Event
	emit := func(ev Event) {
		ev.Timestamp = now
		events = append(events, ev)
	}

	if e.tempo.Expire(now) {
		emit(Event{Kind: TempoCleared})
	}

	looking, haveGaze := e.looking(&f)
	if haveGaze && e.gates[EyeContactStarted].Update(looking, now) {
		emit(Event{Kind: EyeContactStarted})
	}

	if pitch, yaw, ok := e.headAngles(&f); ok {
		e.processHead(pitch, yaw, now, emit)
	}

	if e.mode == ModeTransport && f.Face != nil {
		e.processBeat(f.Face.Nose.Y, haveGaze && looking, now, emit)
	}

	e.processHands(f.Hands, now, emit)

	return events
}

func (e *Engine) looking(f *Frame) (bool, bool) {
	if f.Looking != nil {
		return *f.Looking, true
	}
	if f.Face != nil {
		return pose.LookingAtCamera(f.Face, e.cfg.Gaze), true
	}
	return false, false
}

func (e *Engine) headAngles(f *Frame) (pitch, yaw float64, ok bool) {
	if f.Head != nil {
		return f.Head.Pitch, f.Head.Yaw, true
	}
	if f.Face != nil {
		return pose.HeadAngles(f.Face)
	}
	return 0, 0, false
}

func (e *Engine) processHead(pitch, yaw, now float64, emit func(Event)) {
	p, y := pitch, yaw
	if e.cfg.Smoothing.Mode == signal.SmoothExponential {
		p = e.pitchEMA.Update(p)
		y = e.yawEMA.Update(y)
	}
	e.pitch.Push(p)
	e.yaw.Push(y)

	ps, ys := e.pitch.Slice(), e.yaw.Slice()
	if e.cfg.Smoothing.Mode == signal.SmoothMovingAverage {
		ps = signal.MovingAverage(ps, e.cfg.Smoothing.Width)
		ys = signal.MovingAverage(ys, e.cfg.Smoothing.Width)
	}
	e.state = e.classifier.Classify(ps, ys)

	switch e.mode {
	case ModeApproval:
		var nod bool
		if e.cfg.Nod.Strategy == NodThreshold {
			nod = e.approvalOnset.Update(pitch)
		} else {
			nod = e.state == motion.Nodding
		}
		if e.gates[ApprovalNod].Update(nod, now) {
			emit(Event{Kind: ApprovalNod})
		}
		if e.shake.Update(yaw, now) {
			emit(Event{Kind: ApprovalShake})
		}

	case ModeTempo:
		if !e.tempoOnset.Update(pitch) {
			return
		}
		if est, ok := e.tempo.RecordOnset(now); ok {
			emit(Event{Kind: TempoUpdated, BPM: est.BPM})
		}
	}
}

func (e *Engine) processBeat(y float64, looking bool, now float64, emit func(Event)) {
	beat := e.beat.Update(y, now)
	switch beat {
	case motion.Downbeat:
		emit(Event{Kind: DownbeatDetected})
	case motion.Upbeat:
		emit(Event{Kind: UpbeatDetected})
	}

	if !looking {
		e.transportArmed = false
		return
	}
	switch beat {
	case motion.Upbeat:
		e.transportArmed = true
	case motion.Downbeat:
		if e.transportArmed {
			e.transportArmed = false
			e.playing = !e.playing
			playing := e.playing
			emit(Event{Kind: TransportToggled, Playing: &playing})
		}
	}
}

func (e *Engine) processHands(hands []landmark.HandLandmarks, now float64, emit func(Event)) {
	var up, down, palm string
	for i := range hands {
		h := &hands[i]
		hand := h.Handedness
		if hand == "" {
			hand = "unknown"
		}
		switch pose.ThumbDirection(h, e.cfg.Hand) {
		case pose.ThumbUp:
			up = firstNonEmpty(up, hand)
		case pose.ThumbDown:
			down = firstNonEmpty(down, hand)
		}
		if pose.IsOpenPalm(h, e.cfg.Hand) {
			palm = firstNonEmpty(palm, hand)
		}
	}

	if e.gates[ThumbsUpConfirmed].Update(up != "", now) {
		emit(Event{Kind: ThumbsUpConfirmed, Hand: up})
	}
	if e.gates[ThumbsDownConfirmed].Update(down != "", now) {
		emit(Event{Kind: ThumbsDownConfirmed, Hand: down})
	}
	if e.gates[OpenPalmDetected].Update(palm != "", now) {
		emit(Event{Kind: OpenPalmDetected, Hand: palm})
		// A stop re-opens the thumbs confirmations.
		e.gates[ThumbsUpConfirmed].Arm()
		e.gates[ThumbsDownConfirmed].Arm()
	}
}

func firstNonEmpty(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}
