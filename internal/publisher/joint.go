package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robotcontrol/vispub/internal/convert"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/core"
)

// ErrLengthMismatch is returned when a value sequence does not have one
// entry per active joint. Nothing is sent in that case.
var ErrLengthMismatch = errors.New("joint value length mismatch")

// JointStatePublisher emits joint snapshots and then flushes the visual
// publisher it is paired with. It is not safe for concurrent use.
type JointStatePublisher struct {
	topic     string
	transport transport.Transport
	visual    *VisualPublisher

	floatingBase bool
	detected     bool

	metrics *metrics
	now     func() time.Time
	logger  *slog.Logger
}

func newJointStatePublisher(topic string, visual *VisualPublisher) *JointStatePublisher {
	return &JointStatePublisher{
		topic:     topic,
		transport: visual.transport,
		visual:    visual,
		metrics:   visual.metrics,
		now:       visual.now,
		logger:    visual.logger,
	}
}

// Publish sends one joint state for the model's active joints and then
// publishes the pending visuals. Nil velocity or effort default to zeros.
func (j *JointStatePublisher) Publish(model core.RobotModel, position, velocity, effort []float64) error {
	active := model.ActiveJoints()
	all := model.JointNames()
	if active < 0 || active > len(all) {
		return fmt.Errorf("%w: model reports %d active joints for %d names", ErrLengthMismatch, active, len(all))
	}

	if !j.detected {
		j.detectFloatingBase(model)
	}

	if velocity == nil {
		velocity = make([]float64, active)
	}
	if effort == nil {
		effort = make([]float64, active)
	}
	if err := checkLength("position", position, active); err != nil {
		return err
	}
	if err := checkLength("velocity", velocity, active); err != nil {
		return err
	}
	if err := checkLength("effort", effort, active); err != nil {
		return err
	}

	snapshot := core.JointState{
		Stamp:    j.now(),
		Name:     append([]string(nil), all[len(all)-active:]...),
		Position: append([]float64(nil), position...),
		Velocity: append([]float64(nil), velocity...),
		Effort:   append([]float64(nil), effort...),
	}

	ctx := context.Background()
	if err := j.transport.PublishJointState(j.topic, convert.ToJointState(snapshot)); err != nil {
		j.metrics.errors.Add(ctx, 1, topicAttr(j.topic))
		return fmt.Errorf("publish %s: %w", j.topic, err)
	}
	j.metrics.jointStates.Add(ctx, 1, topicAttr(j.topic))

	return j.visual.PublishVisual()
}

// FloatingBase reports the cached floating-base flag. detected is false
// until the first Publish.
func (j *JointStatePublisher) FloatingBase() (floating, detected bool) {
	return j.floatingBase, j.detected
}

func (j *JointStatePublisher) detectFloatingBase(model core.RobotModel) {
	nq, nv, ok := model.Dimensions()
	switch {
	case !ok:
		j.floatingBase = true
		j.logger.Debug("Robot model reports no configuration dimensions, assuming floating base")
	case nq != nv:
		j.floatingBase = true
	default:
		j.floatingBase = false
	}
	j.detected = true
	j.logger.Debug("Detected base type", "floating", j.floatingBase, "nq", nq, "nv", nv)
}

func checkLength(field string, values []float64, want int) error {
	if len(values) != want {
		return fmt.Errorf("%w: %s has %d values, want %d", ErrLengthMismatch, field, len(values), want)
	}
	return nil
}
