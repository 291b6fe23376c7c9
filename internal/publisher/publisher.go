// Package publisher publishes joint states and per-frame visuals through
// a transport.
package publisher

import (
	"errors"
	"log/slog"
	"time"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/node"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/core"
)

// ErrJointStateDisabled is returned by Publish in visual-only mode.
var ErrJointStateDisabled = errors.New("joint state publishing disabled")

// Dependencies holds the collaborators of a publisher.
type Dependencies struct {
	Transport transport.Transport
	Node      *node.Node
	Logger    *slog.Logger
	Stats     StatsSink        // optional
	Now       func() time.Time // defaults to time.Now
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Publisher pairs a visual publisher with an optional joint state
// publisher and the node they run under.
type Publisher struct {
	*VisualPublisher
	joint *JointStatePublisher
	node  *node.Node
}

// New creates a publisher. With cfg.OnlyVisual set no joint state
// publisher is created.
func New(cfg config.PublisherConfig, deps Dependencies) (*Publisher, error) {
	if deps.Node == nil {
		return nil, errors.New("node is required")
	}
	cfg = withDefaults(cfg)

	visual, err := NewVisualPublisher(cfg, deps)
	if err != nil {
		return nil, err
	}

	p := &Publisher{
		VisualPublisher: visual,
		node:            deps.Node,
	}
	if !cfg.OnlyVisual {
		p.joint = newJointStatePublisher(cfg.JointTopic, visual)
	}

	visual.logger.Info("Publisher ready",
		"node", deps.Node.Name(),
		"frame", visual.frame,
		"onlyVisual", cfg.OnlyVisual,
	)
	return p, nil
}

// Publish sends a joint state and then the pending visuals.
func (p *Publisher) Publish(model core.RobotModel, position, velocity, effort []float64) error {
	if p.joint == nil {
		return ErrJointStateDisabled
	}
	return p.joint.Publish(model, position, velocity, effort)
}

// FloatingBase reports the detected base type. detected stays false in
// visual-only mode and before the first Publish.
func (p *Publisher) FloatingBase() (floating, detected bool) {
	if p.joint == nil {
		return false, false
	}
	return p.joint.FloatingBase()
}

// Deregister shuts the node down.
func (p *Publisher) Deregister() {
	p.node.Shutdown("manual kill")
}

// IsShuttingDown reports whether the node is shutting down.
func (p *Publisher) IsShuttingDown() bool {
	return p.node.IsShuttingDown()
}
