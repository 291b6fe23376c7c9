// Package websocket streams joint states and marker arrays to a remote
// consumer over a WebSocket connection.
package websocket

import (
	"fmt"
	"log/slog"

	"github.com/robotcontrol/vispub/internal/codec"
	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

// Backend implements transport.Transport over WebSocket.
type Backend struct {
	conn   *connection
	cfg    config.WebSocketConfig
	codec  codec.Codec
	node   string
	topics []string
}

// New creates a new WebSocket transport. topics are announced to the
// server in the advertise message sent by Init.
func New(cfg config.WebSocketConfig, c codec.Codec, node string, topics []string, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	if c == nil {
		c = codec.JSON{}
	}
	return &Backend{
		conn:   newConnection(c, logger.With("transport", "websocket")),
		cfg:    cfg,
		codec:  c,
		node:   node,
		topics: topics,
	}
}

// Init connects and waits for the server to acknowledge the advertise message.
func (b *Backend) Init() error {
	if err := b.conn.dial(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}
	data, err := b.marshalEnvelope(streaming.TypeAdvertise, "", streaming.AdvertisePayload{
		Node:   b.node,
		Topics: b.topics,
	})
	if err != nil {
		return err
	}
	if err := b.conn.sendAndWait(data, streaming.TypeAdvertise, ackTimeout); err != nil {
		_ = b.conn.close()
		return err
	}
	return nil
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope wraps the payload in an Envelope and encodes it.
func (b *Backend) marshalEnvelope(msgType, topic string, payload any) ([]byte, error) {
	env := streaming.Envelope{Type: msgType, Topic: topic, Payload: payload}
	data, err := b.codec.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

func (b *Backend) sendEnvelope(msgType, topic string, payload any) error {
	data, err := b.marshalEnvelope(msgType, topic, payload)
	if err != nil {
		return err
	}
	return b.conn.write(data)
}

func (b *Backend) PublishJointState(topic string, js *streaming.JointState) error {
	return b.sendEnvelope(streaming.TypeJointState, topic, js)
}

func (b *Backend) PublishMarkers(topic string, arr *streaming.MarkerArray) error {
	return b.sendEnvelope(streaming.TypeMarkerArray, topic, arr)
}
