// Package transport defines how published joint states and marker arrays
// leave the process.
package transport

import (
	"errors"

	"github.com/robotcontrol/vispub/pkg/streaming"
)

// ErrClosed is returned when publishing on a transport that is not open.
var ErrClosed = errors.New("transport closed")

// Transport is the interface all message transports must satisfy.
// Publish calls are synchronous: a nil error means the message was handed
// to the underlying channel.
type Transport interface {
	// Lifecycle
	Init() error
	Close() error

	PublishJointState(topic string, js *streaming.JointState) error
	PublishMarkers(topic string, arr *streaming.MarkerArray) error
}

// Exportable is an optional interface for transports that write a
// session file when closed.
type Exportable interface {
	GetExportedFilePath() string
}
