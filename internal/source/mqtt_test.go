package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturecue/internal/engine"
)

// fakeMessage implements mqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type collectSink struct {
	frames []engine.Frame
	err    error
}

func (c *collectSink) Submit(f engine.Frame) error {
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, f)
	return nil
}

func TestMQTTSource_Handler(t *testing.T) {
	src := NewMQTTSource(DefaultMQTTConfig())
	sink := &collectSink{}
	handle := src.handler(sink)

	handle(nil, fakeMessage{topic: "gesturecue/frames", payload: []byte(`{"timestamp": 0.5, "looking": true}`)})
	handle(nil, fakeMessage{topic: "gesturecue/frames", payload: []byte(`[{"timestamp": 0.6}, {"timestamp": 0.7}]`)})
	handle(nil, fakeMessage{topic: "gesturecue/frames", payload: []byte(`garbage`)})

	require.Len(t, sink.frames, 3)
	assert.InDelta(t, 0.7, sink.frames[2].Timestamp, 1e-9)

	received, dropped := src.Stats()
	assert.Equal(t, int64(3), received)
	assert.Equal(t, int64(1), dropped)
}

func TestMQTTSource_HandlerCountsRejectedFrames(t *testing.T) {
	src := NewMQTTSource(DefaultMQTTConfig())
	handle := src.handler(&collectSink{err: errors.New("frame queue full")})

	handle(nil, fakeMessage{payload: []byte(`[{"timestamp": 1}, {"timestamp": 2}]`)})

	received, dropped := src.Stats()
	assert.Equal(t, int64(2), received)
	assert.Equal(t, int64(2), dropped)
}

func TestMQTTSource_RunUnreachableBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test")
	}

	cfg := DefaultMQTTConfig()
	cfg.Broker = "tcp://127.0.0.1:1"
	cfg.ConnectTimeout = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := NewMQTTSource(cfg).Run(ctx, &collectSink{})
	assert.Error(t, err)
}

func TestNewMQTTSource_DefaultsTimeout(t *testing.T) {
	src := NewMQTTSource(MQTTConfig{Broker: "tcp://example:1883"})
	assert.Equal(t, DefaultMQTTConfig().ConnectTimeout, src.cfg.ConnectTimeout)
}
