// Package main provides an action plugin that republishes gesture cues to
// an MQTT topic, for lighting desks and DAW bridges that listen there.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action    string          `json:"action"`
	SessionID string          `json:"session_id"`
	Event     json.RawMessage `json:"event"`
	Config    json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// PublishConfig is the per-binding configuration.
type PublishConfig struct {
	Broker   string `json:"broker"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	Retained bool   `json:"retained"`
}

const connectTimeout = 3 * time.Second

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "publish":
		topic, err := handlePublish(req)
		if err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
		data, _ := json.Marshal(map[string]string{"topic": topic})
		writeSuccessResponse(data)
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
	}
}

// parseConfig applies defaults to the binding config.
func parseConfig(raw json.RawMessage) (PublishConfig, error) {
	cfg := PublishConfig{Broker: "tcp://localhost:1883", Topic: "gesturecue/cues/{kind}"}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if cfg.QoS > 2 {
		return cfg, fmt.Errorf("qos must be 0, 1 or 2")
	}
	return cfg, nil
}

// topicFor expands {kind} in the configured topic.
func topicFor(pattern string, event json.RawMessage) (string, error) {
	var ev struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(event, &ev); err != nil {
		return "", fmt.Errorf("failed to parse event: %w", err)
	}
	if ev.Kind == "" {
		return "", fmt.Errorf("event kind is required")
	}
	return strings.ReplaceAll(pattern, "{kind}", ev.Kind), nil
}

func handlePublish(req Request) (string, error) {
	cfg, err := parseConfig(req.Config)
	if err != nil {
		return "", err
	}
	topic, err := topicFor(cfg.Topic, req.Event)
	if err != nil {
		return "", err
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(fmt.Sprintf("gesturecue-cue-%d", os.Getpid())).
		SetConnectTimeout(connectTimeout)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return "", fmt.Errorf("connect to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return "", fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	defer client.Disconnect(250)

	pub := client.Publish(topic, cfg.QoS, cfg.Retained, []byte(req.Event))
	if !pub.WaitTimeout(connectTimeout) {
		return "", fmt.Errorf("publish to %s: timed out", topic)
	}
	return topic, pub.Error()
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}
