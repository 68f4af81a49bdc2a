package app

import (
	"context"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/log"
	"github.com/ayusman/gesturecue/internal/plugin"
	"github.com/ayusman/gesturecue/internal/store"
)

// runPipeline consumes queued frames until stopCh closes. Frames still
// queued at that point are dropped.
func (a *App) runPipeline(frames <-chan engine.Frame, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		case f := <-frames:
			a.Process(f)
		}
	}
}

// dispatch persists ev, notifies subscribers and starts bound plugin
// actions. The caller holds engineMu.
func (a *App) dispatch(sessionID string, ev engine.Event) {
	log.Info("gesture event", "session", sessionID, "event", ev.String())

	if a.recording {
		rec := &store.Event{
			SessionID: sessionID,
			Kind:      string(ev.Kind),
			Timestamp: ev.Timestamp,
			BPM:       ev.BPM,
			Playing:   ev.Playing,
			Hand:      ev.Hand,
		}
		if err := a.config.Store.Events().Create(rec); err != nil {
			log.Error("failed to store event", "kind", ev.Kind, "error", err)
		}
	}

	a.cbMu.RLock()
	callbacks := a.callbacks
	a.cbMu.RUnlock()
	for _, cb := range callbacks {
		cb(sessionID, ev)
	}

	if a.config.Store == nil {
		return
	}
	bindings, err := a.config.Store.Actions().ListByEventKind(string(ev.Kind))
	if err != nil {
		log.Error("failed to load actions", "kind", ev.Kind, "error", err)
		return
	}
	for _, binding := range bindings {
		a.actions.Add(1)
		go func(binding *store.Action) {
			defer a.actions.Done()
			a.executeAction(sessionID, ev, binding)
		}(binding)
	}
}

// executeAction runs the plugin action bound to ev.
func (a *App) executeAction(sessionID string, ev engine.Event, binding *store.Action) {
	logger := log.With("kind", ev.Kind, "plugin", binding.PluginName, "action", binding.ActionName)

	p, err := a.pluginMgr.Get(binding.PluginName)
	if err != nil {
		logger.Warn("action skipped", "error", err)
		return
	}
	if !p.Accepts(string(ev.Kind)) {
		logger.Debug("plugin does not accept event kind")
		return
	}

	req := &plugin.Request{
		Action:    binding.ActionName,
		SessionID: sessionID,
		Event: plugin.Event{
			Kind:      string(ev.Kind),
			Timestamp: ev.Timestamp,
			BPM:       ev.BPM,
			Playing:   ev.Playing,
			Hand:      ev.Hand,
		},
		Config: binding.Config,
	}

	resp, err := a.pluginExec.Execute(context.Background(), p, req)
	if err != nil {
		logger.Error("action failed", "error", err)
		return
	}
	if !resp.Success {
		logger.Warn("action reported failure", "error", resp.Error)
		return
	}
	logger.Info("action executed")
}
