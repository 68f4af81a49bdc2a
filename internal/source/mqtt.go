package source

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/log"
)

// MQTTConfig configures the MQTT frame subscriber.
type MQTTConfig struct {
	Broker         string
	Topic          string
	ClientID       string
	QoS            byte
	ConnectTimeout time.Duration
}

// DefaultMQTTConfig returns a subscriber for a local broker.
func DefaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:         "tcp://localhost:1883",
		Topic:          "gesturecue/frames",
		ClientID:       "gesturecue-engine",
		QoS:            0,
		ConnectTimeout: 10 * time.Second,
	}
}

// MQTTSource subscribes to a topic whose payloads are frames or frame
// arrays and forwards them to a Sink.
type MQTTSource struct {
	cfg      MQTTConfig
	received atomic.Int64
	dropped  atomic.Int64
}

// NewMQTTSource creates an MQTTSource.
func NewMQTTSource(cfg MQTTConfig) *MQTTSource {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultMQTTConfig().ConnectTimeout
	}
	return &MQTTSource{cfg: cfg}
}

// Run connects, subscribes and forwards frames until ctx is done.
func (s *MQTTSource) Run(ctx context.Context, sink Sink) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetConnectTimeout(s.cfg.ConnectTimeout).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(s.cfg.ConnectTimeout) {
		return fmt.Errorf("connect to %s: timed out", s.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", s.cfg.Broker, err)
	}
	defer client.Disconnect(250)
	log.Info("connected to MQTT broker", "broker", s.cfg.Broker)

	sub := client.Subscribe(s.cfg.Topic, s.cfg.QoS, s.handler(sink))
	sub.Wait()
	if err := sub.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.cfg.Topic, err)
	}
	log.Info("subscribed to frames", "topic", s.cfg.Topic)

	<-ctx.Done()
	client.Unsubscribe(s.cfg.Topic).WaitTimeout(time.Second)
	return nil
}

// Stats returns how many frames were received and how many the sink
// rejected or could not be decoded.
func (s *MQTTSource) Stats() (received, dropped int64) {
	return s.received.Load(), s.dropped.Load()
}

func (s *MQTTSource) handler(sink Sink) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		frames, err := engine.DecodeFrames(msg.Payload())
		if err != nil {
			s.dropped.Add(1)
			log.Warn("frame unmarshal error", "topic", msg.Topic(), "error", err)
			return
		}
		for _, f := range frames {
			s.received.Add(1)
			if err := sink.Submit(f); err != nil {
				s.dropped.Add(1)
				log.Debug("frame dropped", "error", err)
			}
		}
	}
}
