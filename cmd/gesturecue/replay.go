package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturecue/internal/app"
	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/log"
	"github.com/ayusman/gesturecue/internal/source"
)

type replayFlags struct {
	realtime bool
	speed    float64
}

func newReplayCmd(root *rootFlags) *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Run recorded frames through the engine and print events",
		Long: `replay reads JSONL frames from FILE ("-" for stdin) and writes every
emitted event to stdout as one JSON object per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, root, flags, args[0])
		},
	}
	cmd.Flags().BoolVar(&flags.realtime, "realtime", false, "pace frames by their timestamps")
	cmd.Flags().Float64Var(&flags.speed, "speed", 1, "realtime playback speed")
	return cmd
}

func runReplay(cmd *cobra.Command, root *rootFlags, flags *replayFlags, path string) error {
	cfg, err := engineConfig(cmd, root, nil)
	if err != nil {
		return err
	}
	a, err := app.New(app.Config{Engine: cfg})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	a.OnEvent(func(_ string, ev engine.Event) {
		if err := enc.Encode(ev); err != nil {
			log.Warn("failed to write event", "error", err)
		}
	})

	f, err := stdinOrFile(path)
	if err != nil {
		return err
	}
	if f != os.Stdin {
		defer f.Close()
	}

	replayer := source.Replayer{Realtime: flags.realtime, Speed: flags.speed}
	n, err := replayer.Run(cmd.Context(), f, source.SinkFunc(func(fr engine.Frame) error {
		a.Process(fr)
		return nil
	}))
	log.Info("replay finished", "frames", n, "mode", a.Mode())
	return err
}
