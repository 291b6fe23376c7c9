// Package memory implements an in-process transport that records every
// published message in order and can export the session as JSON.
package memory

import (
	"sync"
	"time"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

// Message is one recorded publish.
type Message struct {
	Type       string                 `json:"type"`
	Topic      string                 `json:"topic"`
	Time       time.Time              `json:"time"`
	JointState *streaming.JointState  `json:"jointState,omitempty"`
	Markers    *streaming.MarkerArray `json:"markers,omitempty"`
}

// Backend records messages in memory.
type Backend struct {
	cfg       config.MemoryConfig
	node      string
	startedAt time.Time

	messages []Message
	open     bool

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory transport. node names the export file.
func New(cfg config.MemoryConfig, node string) *Backend {
	return &Backend{
		cfg:  cfg,
		node: node,
	}
}

// Init opens the transport and clears any previous recording.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = nil
	b.startedAt = time.Now()
	b.open = true
	return nil
}

// Close stops recording and exports the session when an output
// directory is configured.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	b.open = false

	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

func (b *Backend) record(m Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return transport.ErrClosed
	}
	m.Time = time.Now()
	b.messages = append(b.messages, m)
	return nil
}

// PublishJointState records a joint state message.
func (b *Backend) PublishJointState(topic string, js *streaming.JointState) error {
	return b.record(Message{Type: streaming.TypeJointState, Topic: topic, JointState: js})
}

// PublishMarkers records a marker array message.
func (b *Backend) PublishMarkers(topic string, arr *streaming.MarkerArray) error {
	return b.record(Message{Type: streaming.TypeMarkerArray, Topic: topic, Markers: arr})
}

// Messages returns a copy of everything recorded so far, in publish order.
func (b *Backend) Messages() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cp := make([]Message, len(b.messages))
	copy(cp, b.messages)
	return cp
}

// OnTopic returns the recorded messages published on topic.
func (b *Backend) OnTopic(topic string) []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Message
	for _, m := range b.messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// Reset drops the recording without closing the transport.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
}
