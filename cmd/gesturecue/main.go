// gesturecue turns head, face and hand landmark frames into discrete
// musical cues and serves them over HTTP, websockets and action plugins.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturecue/internal/app"
	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/log"
	"github.com/ayusman/gesturecue/internal/store"
)

var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	logLevel   string
	configPath string
	mode       string
}

func main() {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "gesturecue",
		Short: "Gesture cues for live musicians",
		Long: `gesturecue reads landmark frames from a camera-side tracker and emits
approval, tempo and transport cues: nods, shakes, thumbs, open palms and
tapped-out tempo.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(flags.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "engine config file (JSON)")
	root.PersistentFlags().StringVar(&flags.mode, "mode", string(engine.ModeApproval), "engine mode (approval, tempo, transport)")

	root.AddCommand(newServeCmd(flags), newReplayCmd(flags))

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// engineConfig resolves the engine config: an explicit file wins, then the
// config saved by the last session, then the preset for --mode. An explicit
// --mode always overrides the mode of a loaded config.
func engineConfig(cmd *cobra.Command, flags *rootFlags, st *store.Store) (engine.Config, error) {
	mode, err := engine.ParseMode(flags.mode)
	if err != nil {
		return engine.Config{}, err
	}

	var (
		cfg    engine.Config
		loaded bool
	)
	switch {
	case flags.configPath != "":
		if cfg, err = engine.LoadConfig(flags.configPath); err != nil {
			return engine.Config{}, err
		}
		loaded = true
	case st != nil:
		if cfg, loaded, err = app.StoredEngineConfig(st); err != nil {
			log.Warn("ignoring stored engine config", "error", err)
			loaded = false
		}
	}

	if !loaded {
		return engine.PresetFor(mode)
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	return cfg, nil
}

// dataDir returns ~/.gesturecue, creating it if needed.
func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".gesturecue")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.gesturecue/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".gesturecue", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
