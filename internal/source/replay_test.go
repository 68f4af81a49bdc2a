package source

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/testdata"
)

func TestReplayer_Run(t *testing.T) {
	input := strings.Join([]string{
		"# recorded session",
		`{"timestamp": 0.0, "head": {"pitch": 0, "yaw": 0}}`,
		"",
		`[{"timestamp": 0.1}, {"timestamp": 0.2, "looking": true}]`,
	}, "\n")

	sink := &collectSink{}
	n, err := Replayer{}.Run(context.Background(), strings.NewReader(input), sink)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, sink.frames, 3)
	require.NotNil(t, sink.frames[0].Head)
	require.NotNil(t, sink.frames[2].Looking)
}

func TestReplayer_RoundTripsGeneratedFrames(t *testing.T) {
	frames := testdata.Nods(0, 45, 6)
	var buf bytes.Buffer
	require.NoError(t, testdata.WriteJSONL(&buf, frames))

	sink := &collectSink{}
	n, err := Replayer{}.Run(context.Background(), &buf, sink)
	require.NoError(t, err)
	assert.Equal(t, len(frames), n)
	assert.InDelta(t, frames[44].Head.Pitch, sink.frames[44].Head.Pitch, 1e-9)
}

func TestReplayer_BadLine(t *testing.T) {
	input := "{\"timestamp\": 0}\nnot json\n{\"timestamp\": 1}\n"
	sink := &collectSink{}
	n, err := Replayer{}.Run(context.Background(), strings.NewReader(input), sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
}

func TestReplayer_SinkError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	sink := SinkFunc(func(engine.Frame) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})

	n, err := Replayer{}.Run(context.Background(), strings.NewReader("{}\n{}\n{}\n"), sink)
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestReplayer_Realtime(t *testing.T) {
	input := "{\"timestamp\": 10.0}\n{\"timestamp\": 10.2}\n"

	start := time.Now()
	n, err := Replayer{Realtime: true, Speed: 2}.Run(context.Background(), strings.NewReader(input), &collectSink{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestReplayer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Replayer{}.Run(ctx, strings.NewReader("{}\n"), &collectSink{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
