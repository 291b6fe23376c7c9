package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/robotcontrol/vispub/internal/batch"
	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/convert"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/core"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

// Defaults applied to empty PublisherConfig fields.
const (
	DefaultVisualFrame = "world"
	DefaultJointTopic  = "/joint_states"
	DefaultMarkerTopic = "/vis"
	DefaultArrowTopic  = "/arrow"
)

// Defaults for the Add* calls.
const (
	DefaultRadius     = 0.1
	DefaultArrowScale = 1.0
)

// FrameStats summarises one PublishVisual call.
type FrameStats struct {
	Stamp   time.Time
	Markers int // spheres and cones
	Arrows  int
	Failed  bool
}

// StatsSink receives per-frame statistics.
type StatsSink interface {
	RecordFrame(FrameStats)
}

type markerOptions struct {
	radius   float64
	scale    float64
	color    core.Color
	lifetime time.Duration
}

// MarkerOption overrides a default of AddMarker, AddArrow or AddCone.
type MarkerOption func(*markerOptions)

// WithRadius sets the sphere radius.
func WithRadius(r float64) MarkerOption {
	return func(o *markerOptions) { o.radius = r }
}

// WithScale sets the arrow width multiplier.
func WithScale(s float64) MarkerOption {
	return func(o *markerOptions) { o.scale = s }
}

// WithColor sets the colour.
func WithColor(c core.Color) MarkerOption {
	return func(o *markerOptions) { o.color = c }
}

// WithColorName sets the colour by name. Unknown names give
// core.ColorUnspecified.
func WithColorName(name string) MarkerOption {
	return WithColor(core.ParseColor(name))
}

// WithLifetime sets how long the consumer keeps the visual. Zero keeps it
// until the next delete-all.
func WithLifetime(d time.Duration) MarkerOption {
	return func(o *markerOptions) { o.lifetime = d }
}

func applyOptions(o markerOptions, opts []MarkerOption) markerOptions {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// VisualPublisher batches drawables and publishes them once per frame,
// followed by a delete-all so nothing outlives its frame. It is not safe
// for concurrent use.
type VisualPublisher struct {
	frame       string
	markerTopic string
	arrowTopic  string

	transport transport.Transport
	markers   *batch.Batch // spheres and cones
	arrows    *batch.Batch

	metrics *metrics
	stats   StatsSink
	now     func() time.Time
	logger  *slog.Logger
}

// NewVisualPublisher creates a visual publisher on the given transport.
func NewVisualPublisher(cfg config.PublisherConfig, deps Dependencies) (*VisualPublisher, error) {
	if deps.Transport == nil {
		return nil, errors.New("transport is required")
	}
	cfg = withDefaults(cfg)
	deps = deps.withDefaults()

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	return &VisualPublisher{
		frame:       cfg.VisualFrame,
		markerTopic: cfg.MarkerTopic,
		arrowTopic:  cfg.ArrowTopic,
		transport:   deps.Transport,
		markers:     batch.New(),
		arrows:      batch.New(),
		metrics:     m,
		stats:       deps.Stats,
		now:         deps.Now,
		logger:      deps.Logger,
	}, nil
}

func withDefaults(cfg config.PublisherConfig) config.PublisherConfig {
	if cfg.VisualFrame == "" {
		cfg.VisualFrame = DefaultVisualFrame
	}
	if cfg.JointTopic == "" {
		cfg.JointTopic = DefaultJointTopic
	}
	if cfg.MarkerTopic == "" {
		cfg.MarkerTopic = DefaultMarkerTopic
	}
	if cfg.ArrowTopic == "" {
		cfg.ArrowTopic = DefaultArrowTopic
	}
	return cfg
}

// AddMarker queues a sphere centred on pos and returns its id.
// Defaults: radius 0.1, red.
func (v *VisualPublisher) AddMarker(pos core.Vec3, opts ...MarkerOption) int {
	o := applyOptions(markerOptions{radius: DefaultRadius, color: core.ColorRed}, opts)
	return v.markers.Add(core.Drawable{
		Frame:    v.frame,
		Geometry: core.Sphere{Center: pos, Radius: o.radius},
		Color:    o.color,
		Alpha:    core.SphereAlpha,
		Lifetime: o.lifetime,
	})
}

// AddArrow queues an arrow from start along vector and returns its id.
// Defaults: scale 1.0, green.
func (v *VisualPublisher) AddArrow(start, vector core.Vec3, opts ...MarkerOption) int {
	o := applyOptions(markerOptions{scale: DefaultArrowScale, color: core.ColorGreen}, opts)
	return v.arrows.Add(core.Drawable{
		Frame:    v.frame,
		Geometry: core.NewArrow(start, vector, o.scale),
		Color:    o.color,
		Alpha:    core.ArrowAlpha,
		Lifetime: o.lifetime,
	})
}

// AddCone queues a friction cone at origin opening along the unit normal
// and returns its id. The cone shares the sphere batch. Default: green.
func (v *VisualPublisher) AddCone(origin, normal core.Vec3, frictionCoeff float64, opts ...MarkerOption) int {
	o := applyOptions(markerOptions{color: core.ColorGreen}, opts)
	return v.markers.Add(core.Drawable{
		Frame:    v.frame,
		Geometry: core.NewFrictionCone(origin, normal, frictionCoeff),
		Color:    o.color,
		Alpha:    core.ConeAlpha,
		Lifetime: o.lifetime,
	})
}

// Pending returns the number of queued spheres and cones, and arrows.
func (v *VisualPublisher) Pending() (markers, arrows int) {
	return v.markers.Len(), v.arrows.Len()
}

// DiscardVisual drops every queued drawable without sending anything and
// returns how many spheres/cones and arrows were dropped.
func (v *VisualPublisher) DiscardVisual() (markers, arrows int) {
	return len(v.markers.Flush()), len(v.arrows.Flush())
}

// PublishVisual sends the sphere/cone batch on the marker topic and the
// arrow batch on the arrow topic, skipping empty ones, then always sends a
// delete-all on the arrow topic. Both batches are reset even when a send
// fails; every step is attempted and the failures are joined.
func (v *VisualPublisher) PublishVisual() error {
	stats := FrameStats{Stamp: v.now()}
	var errs []error

	if !v.markers.IsEmpty() {
		items := v.markers.Flush()
		stats.Markers = len(items)
		if err := v.sendBatch(v.markerTopic, items); err != nil {
			errs = append(errs, err)
		}
	}

	if !v.arrows.IsEmpty() {
		items := v.arrows.Flush()
		stats.Arrows = len(items)
		if err := v.sendBatch(v.arrowTopic, items); err != nil {
			errs = append(errs, err)
		}
	}

	if err := v.DeleteAllMarkers(); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	stats.Failed = err != nil
	if v.stats != nil {
		v.stats.RecordFrame(stats)
	}
	return err
}

// DeleteAllMarkers sends a single delete-all directive on the arrow topic.
func (v *VisualPublisher) DeleteAllMarkers() error {
	if err := v.send(v.arrowTopic, streaming.DeleteAll()); err != nil {
		return err
	}
	v.metrics.deleteAll.Add(context.Background(), 1, topicAttr(v.arrowTopic))
	return nil
}

func (v *VisualPublisher) sendBatch(topic string, items []core.Drawable) error {
	if err := v.send(topic, convert.ToMarkerArray(items)); err != nil {
		return err
	}
	ctx := context.Background()
	v.metrics.batches.Add(ctx, 1, topicAttr(topic))
	v.metrics.markers.Add(ctx, int64(len(items)), topicAttr(topic))
	return nil
}

func (v *VisualPublisher) send(topic string, arr *streaming.MarkerArray) error {
	if err := v.transport.PublishMarkers(topic, arr); err != nil {
		v.metrics.errors.Add(context.Background(), 1, topicAttr(topic))
		v.logger.Warn("Marker publish failed", "topic", topic, "markers", len(arr.Markers), "error", err)
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func topicAttr(topic string) metric.AddOption {
	return metric.WithAttributes(attribute.String("topic", topic))
}
