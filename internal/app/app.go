// Package app hosts a gesture engine for one monitoring session: it queues
// incoming frames, runs them through the engine on a single goroutine and
// dispatches the resulting events to the store, subscribers and plugins.
package app

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/log"
	"github.com/ayusman/gesturecue/internal/plugin"
	"github.com/ayusman/gesturecue/internal/store"
)

const (
	// DefaultQueueSize is the frame queue capacity when Config leaves it unset.
	DefaultQueueSize = 64
	// SettingEngineConfig is the settings key holding the last engine config.
	SettingEngineConfig = "engine.config"
)

var (
	// ErrNotRunning is returned by Submit before Start or after Stop.
	ErrNotRunning = errors.New("pipeline not running")
	// ErrQueueFull is returned by Submit when the frame queue is full.
	ErrQueueFull = errors.New("frame queue full")
)

// Config holds configuration options for the application.
type Config struct {
	// Store persists sessions, events and action bindings. Optional.
	Store     *store.Store
	PluginDir string
	// Engine is the detector configuration. The zero value selects
	// engine.DefaultConfig.
	Engine        engine.Config
	QueueSize     int
	PluginTimeout time.Duration
}

// EventCallback receives every event together with the session it belongs
// to. Callbacks run on the pipeline goroutine, in emission order, and must
// not call back into the App.
type EventCallback func(sessionID string, ev engine.Event)

// Status is a snapshot of the engine.
type Status struct {
	Running     bool        `json:"running"`
	SessionID   string      `json:"session_id,omitempty"`
	Mode        engine.Mode `json:"mode"`
	MotionState string      `json:"motion_state"`
	ShakeStage  string      `json:"shake_stage"`
	BPM         float64     `json:"bpm,omitempty"`
	Playing     bool        `json:"playing"`
}

// App owns one engine and everything downstream of it.
type App struct {
	config     Config
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	// engineMu serializes frames and keeps events in emission order.
	engineMu  sync.Mutex
	engine    *engine.Engine
	sessionID string
	// recording is set while the session row exists in the store.
	recording bool

	mu      sync.RWMutex
	frames  chan engine.Frame
	stopCh  chan struct{}
	done    chan struct{}
	running bool

	cbMu      sync.RWMutex
	callbacks []EventCallback

	actions sync.WaitGroup
}

// New creates an App. The engine config is validated here.
func New(config Config) (*App, error) {
	if config.Engine.Mode == "" {
		config.Engine = engine.DefaultConfig()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}

	eng, err := engine.New(config.Engine)
	if err != nil {
		return nil, err
	}

	return &App{
		config:     config,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(config.PluginTimeout),
		engine:     eng,
		sessionID:  uuid.New().String(),
	}, nil
}

// StoredEngineConfig returns the engine config saved by the last Start.
func StoredEngineConfig(s *store.Store) (engine.Config, bool, error) {
	data, err := s.Settings().Get(SettingEngineConfig)
	if errors.Is(err, store.ErrNotFound) {
		return engine.Config{}, false, nil
	}
	if err != nil {
		return engine.Config{}, false, err
	}
	cfg, err := engine.ParseConfig([]byte(data))
	if err != nil {
		return engine.Config{}, false, err
	}
	return cfg, true, nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// OnEvent registers a callback for every emitted event.
func (a *App) OnEvent(cb EventCallback) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.callbacks = append(a.callbacks, cb)
}

// SessionID returns the current session.
func (a *App) SessionID() string {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.sessionID
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Start records a new session and begins consuming submitted frames.
// Starting a running App is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	a.engineMu.Lock()
	sessionID := a.sessionID
	mode := a.engine.Mode()
	a.engineMu.Unlock()

	if s := a.config.Store; s != nil {
		if err := s.Sessions().Create(&store.Session{ID: sessionID, Mode: string(mode)}); err != nil {
			return err
		}
		if data, err := json.Marshal(a.config.Engine); err == nil {
			if err := s.Settings().Set(SettingEngineConfig, string(data)); err != nil {
				log.Warn("failed to save engine config", "error", err)
			}
		}
	}

	a.engineMu.Lock()
	a.recording = a.config.Store != nil
	a.engineMu.Unlock()

	a.frames = make(chan engine.Frame, a.config.QueueSize)
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	a.running = true
	go a.runPipeline(a.frames, a.stopCh, a.done)

	log.Info("pipeline started", "session", sessionID, "mode", mode)
	return nil
}

// Stop halts the pipeline, waits for in-flight plugin actions and closes
// the session. A later Start opens a fresh session with fresh detectors.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	done := a.done
	a.running = false
	a.frames = nil
	a.mu.Unlock()

	<-done
	a.actions.Wait()

	a.engineMu.Lock()
	sessionID := a.sessionID
	if eng, err := engine.New(a.engine.Config()); err == nil {
		if err := eng.SetMode(a.engine.Mode()); err == nil {
			a.engine = eng
		}
	}
	a.sessionID = uuid.New().String()
	a.recording = false
	a.engineMu.Unlock()

	if s := a.config.Store; s != nil {
		if err := s.Sessions().End(sessionID, time.Now()); err != nil {
			log.Warn("failed to end session", "session", sessionID, "error", err)
		}
	}
	log.Info("pipeline stopped", "session", sessionID)
}

// Submit queues a frame without blocking.
func (a *App) Submit(f engine.Frame) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.running {
		return ErrNotRunning
	}
	select {
	case a.frames <- f:
		return nil
	default:
		return ErrQueueFull
	}
}

// Process runs one frame synchronously and dispatches its events. It
// bypasses the queue and is safe to call whether or not the pipeline runs.
func (a *App) Process(f engine.Frame) []engine.Event {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()

	events := a.engine.ProcessFrame(f)
	for _, ev := range events {
		a.dispatch(a.sessionID, ev)
	}
	return events
}

// Mode returns the engine mode.
func (a *App) Mode() engine.Mode {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Mode()
}

// SetMode switches the engine mode and records it on the session.
func (a *App) SetMode(mode engine.Mode) error {
	a.engineMu.Lock()
	err := a.engine.SetMode(mode)
	sessionID, recording := a.sessionID, a.recording
	a.engineMu.Unlock()
	if err != nil {
		return err
	}

	if recording {
		if err := a.config.Store.Sessions().SetMode(sessionID, string(mode)); err != nil {
			log.Warn("failed to record mode", "session", sessionID, "error", err)
		}
	}
	log.Info("mode changed", "mode", mode)
	return nil
}

// Arm re-enables the gate behind kind.
func (a *App) Arm(kind engine.Kind) error {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Arm(kind)
}

// Disarm blocks kind until it is armed again.
func (a *App) Disarm(kind engine.Kind) error {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Disarm(kind)
}

// Status returns a snapshot of the engine.
func (a *App) Status() Status {
	running := a.Running()

	a.engineMu.Lock()
	defer a.engineMu.Unlock()

	st := Status{
		Running:     running,
		Mode:        a.engine.Mode(),
		MotionState: string(a.engine.MotionState()),
		ShakeStage:  a.engine.ShakeStage().String(),
		Playing:     a.engine.Playing(),
	}
	if running {
		st.SessionID = a.sessionID
	}
	if est, ok := a.engine.Tempo(); ok {
		st.BPM = est.BPM
	}
	return st
}
