package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func newPluginDir(t *testing.T) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "gesturecue-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	return tmpDir
}

// writeManifest writes manifest into root/dir. A string manifest is
// written verbatim.
func writeManifest(t *testing.T, root, dir string, manifest any) string {
	t.Helper()
	pluginDir := filepath.Join(root, dir)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	var data []byte
	switch m := manifest.(type) {
	case string:
		data = []byte(m)
	default:
		var err error
		if data, err = json.Marshal(m); err != nil {
			t.Fatalf("failed to marshal manifest: %v", err)
		}
	}

	if err := os.WriteFile(filepath.Join(pluginDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := newPluginDir(t)
	pluginDir := writeManifest(t, tmpDir, "midi-clock", Manifest{
		Name:        "midi-clock",
		Version:     "1.0.0",
		Description: "Sends tempo to a MIDI clock",
		Executable:  "midi-clock",
		Actions:     []string{"set-tempo", "stop"},
		Events:      []string{"tempo_updated", "tempo_cleared"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "midi-clock" {
		t.Errorf("expected plugin name 'midi-clock', got %q", plugin.Manifest.Name)
	}
	if len(plugin.Manifest.Actions) != 2 {
		t.Errorf("expected 2 actions, got %d", len(plugin.Manifest.Actions))
	}
	if len(plugin.Manifest.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(plugin.Manifest.Events))
	}
	if plugin.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, plugin.Path)
	}
	if plugin.Executable != filepath.Join(pluginDir, "midi-clock") {
		t.Errorf("expected executable under the plugin dir, got %q", plugin.Executable)
	}
}

func TestManager_Discover_MultiplePlugins(t *testing.T) {
	tmpDir := newPluginDir(t)
	for _, name := range []string{"plugin-b", "plugin-a"} {
		writeManifest(t, tmpDir, name, Manifest{Name: name, Version: "1.0.0", Executable: name, Actions: []string{"action"}})
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "plugin-a" {
		t.Errorf("expected plugins sorted by name, got %q first", plugins[0].Manifest.Name)
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir := newPluginDir(t)
	writeManifest(t, tmpDir, "bad-json", "not valid json")
	writeManifest(t, tmpDir, "no-name", Manifest{Executable: "run"})
	writeManifest(t, tmpDir, "no-exec", Manifest{Name: "no-exec"})
	if err := os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	writeManifest(t, tmpDir, "good", Manifest{Name: "good", Executable: "run"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 || plugins[0].Manifest.Name != "good" {
		t.Fatalf("expected only the valid plugin, got %d plugins", len(plugins))
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	tmpDir := newPluginDir(t)
	dir := writeManifest(t, tmpDir, "temp", Manifest{Name: "temp", Executable: "run"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if len(manager.List()) != 1 {
		t.Fatal("expected 1 plugin after first scan")
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("failed to remove plugin: %v", err)
	}
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected removed plugin to disappear on rescan")
	}
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	manager := NewManager(newPluginDir(t))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on empty dir: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Fatalf("expected 0 plugins, got %d", len(manager.List()))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager("/path/that/does/not/exist")
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on non-existent dir: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Fatalf("expected 0 plugins, got %d", len(manager.List()))
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := newPluginDir(t)
	writeManifest(t, tmpDir, "my-plugin", Manifest{Name: "my-plugin", Version: "2.0.0", Executable: "bin", Actions: []string{"run"}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("my-plugin")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if plugin.Manifest.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %q", plugin.Manifest.Version)
	}

	if _, err := manager.Get("nonexistent-plugin"); err != ErrPluginNotFound {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_PluginDir(t *testing.T) {
	pluginDir := "/path/to/plugins"
	manager := NewManager(pluginDir)
	if manager.PluginDir() != pluginDir {
		t.Errorf("expected plugin dir %q, got %q", pluginDir, manager.PluginDir())
	}
}
