// Package node holds the identity and shutdown state of a publishing
// process.
package node

import (
	"log/slog"
	"sync"
)

// Name builds a unique instance name from a prefix and an id source.
// A nil source returns the prefix unchanged.
func Name(prefix string, idSource func() string) string {
	if idSource == nil {
		return prefix
	}
	id := idSource()
	if id == "" {
		return prefix
	}
	return prefix + "_" + id
}

// Node is a named participant that can be shut down exactly once.
type Node struct {
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	done   chan struct{}
	reason string
}

// New creates a running node.
func New(name string, logger *slog.Logger) *Node {
	if logger == nil {
		logger = slog.Default()
	}
	return &Node{
		name:   name,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Name returns the node's instance name.
func (n *Node) Name() string {
	return n.name
}

// Shutdown signals shutdown. Only the first reason is kept.
func (n *Node) Shutdown(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	select {
	case <-n.done:
		return
	default:
	}

	n.reason = reason
	close(n.done)
	n.logger.Info("Node shutting down", "node", n.name, "reason", reason)
}

// IsShuttingDown reports whether Shutdown has been called.
func (n *Node) IsShuttingDown() bool {
	select {
	case <-n.done:
		return true
	default:
		return false
	}
}

// Done is closed once the node shuts down.
func (n *Node) Done() <-chan struct{} {
	return n.done
}

// Reason returns the shutdown reason, or "" while running.
func (n *Node) Reason() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reason
}
