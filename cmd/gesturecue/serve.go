package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturecue/internal/app"
	"github.com/ayusman/gesturecue/internal/log"
	"github.com/ayusman/gesturecue/internal/server"
	"github.com/ayusman/gesturecue/internal/source"
	"github.com/ayusman/gesturecue/internal/store"
)

type serveFlags struct {
	addr          string
	dbPath        string
	pluginDir     string
	webDir        string
	queueSize     int
	pluginTimeout time.Duration
	mqttBroker    string
	mqttTopic     string
	mqttClientID  string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	flags := &serveFlags{}
	mqttDefaults := source.DefaultMQTTConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine behind the HTTP and websocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, flags)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "database path (default ~/.gesturecue/gesturecue.db)")
	cmd.Flags().StringVar(&flags.pluginDir, "plugins", "", "plugin directory (default ~/.gesturecue/plugins)")
	cmd.Flags().StringVar(&flags.webDir, "web", "", "static files to serve (default: search for web/)")
	cmd.Flags().IntVar(&flags.queueSize, "queue", app.DefaultQueueSize, "frame queue capacity")
	cmd.Flags().DurationVar(&flags.pluginTimeout, "plugin-timeout", 5*time.Second, "per-action plugin timeout")
	cmd.Flags().StringVar(&flags.mqttBroker, "mqtt-broker", "", "subscribe to frames on this MQTT broker, e.g. tcp://localhost:1883")
	cmd.Flags().StringVar(&flags.mqttTopic, "mqtt-topic", mqttDefaults.Topic, "MQTT frame topic")
	cmd.Flags().StringVar(&flags.mqttClientID, "mqtt-client-id", mqttDefaults.ClientID, "MQTT client id")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags, flags *serveFlags) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if flags.dbPath == "" || flags.pluginDir == "" {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		if flags.dbPath == "" {
			flags.dbPath = filepath.Join(dir, "gesturecue.db")
		}
		if flags.pluginDir == "" {
			flags.pluginDir = filepath.Join(dir, "plugins")
		}
	}

	st, err := store.New(flags.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := engineConfig(cmd, root, st)
	if err != nil {
		return err
	}

	a, err := app.New(app.Config{
		Store:         st,
		PluginDir:     flags.pluginDir,
		Engine:        cfg,
		QueueSize:     flags.queueSize,
		PluginTimeout: flags.pluginTimeout,
	})
	if err != nil {
		return err
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.Warn("plugin discovery failed", "dir", flags.pluginDir, "error", err)
	}
	for _, p := range a.PluginManager().List() {
		log.Info("plugin loaded", "name", p.Manifest.Name, "version", p.Manifest.Version)
	}

	webDir := flags.webDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Info("serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{StaticDir: webDir, Store: st, App: a})

	if err := a.Start(); err != nil {
		return err
	}
	defer a.Stop()

	if flags.mqttBroker != "" {
		mcfg := source.DefaultMQTTConfig()
		mcfg.Broker = flags.mqttBroker
		mcfg.Topic = flags.mqttTopic
		mcfg.ClientID = flags.mqttClientID
		go func() {
			if err := source.NewMQTTSource(mcfg).Run(ctx, a); err != nil {
				log.Error("mqtt source stopped", "error", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              flags.addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", flags.addr, "mode", a.Mode())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", "error", err)
		return httpSrv.Close()
	}
	return nil
}

// stdinOrFile opens path, or stdin for "-".
func stdinOrFile(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}
