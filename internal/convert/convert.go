// Package convert turns core drawables and joint snapshots into wire messages.
package convert

import (
	"github.com/robotcontrol/vispub/pkg/core"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

// Arrow widths before scaling: shaft diameter, head diameter, head length.
const (
	arrowShaft      = 0.02
	arrowHead       = 0.04
	arrowHeadLength = 0.02
)

var identity = streaming.Quaternion{W: 1}

func toPoint(v core.Vec3) streaming.Point {
	return streaming.Point{X: v.X, Y: v.Y, Z: v.Z}
}

func toColor(c core.Color, alpha float32) streaming.ColorRGBA {
	r, g, b := c.RGB()
	return streaming.ColorRGBA{R: r, G: g, B: b, A: alpha}
}

// ToMarker converts a batched drawable into an ADD marker record.
func ToMarker(d core.Drawable) streaming.Marker {
	m := streaming.Marker{
		Header:   streaming.Header{FrameID: d.Frame},
		ID:       d.ID,
		Action:   streaming.ActionAdd,
		Color:    toColor(d.Color, d.Alpha),
		Lifetime: d.Lifetime,
		Pose:     streaming.Pose{Orientation: identity},
	}

	switch g := d.Geometry.(type) {
	case core.Sphere:
		m.Type = streaming.MarkerSphere
		m.Pose.Position = toPoint(g.Center)
		m.Scale = streaming.Point{X: g.Radius, Y: g.Radius, Z: g.Radius}
	case core.Arrow:
		m.Type = streaming.MarkerArrow
		m.Points = []streaming.Point{toPoint(g.Tail), toPoint(g.Head)}
		m.Scale = streaming.Point{
			X: arrowShaft * g.ShaftScale,
			Y: arrowHead * g.ShaftScale,
			Z: arrowHeadLength * g.ShaftScale,
		}
	case core.Cone:
		// Rendered as an arrow from the base centre to the apex with a zero
		// shaft, so only the head (the cone) is visible.
		m.Type = streaming.MarkerArrow
		m.Points = []streaming.Point{toPoint(g.BaseCenter), toPoint(g.Apex)}
		m.Scale = streaming.Point{X: 0, Y: 2 * g.BaseRadius, Z: g.Height}
	}

	return m
}

// ToMarkerArray converts a flushed batch, keeping its order.
func ToMarkerArray(items []core.Drawable) *streaming.MarkerArray {
	arr := &streaming.MarkerArray{Markers: make([]streaming.Marker, 0, len(items))}
	for _, d := range items {
		arr.Markers = append(arr.Markers, ToMarker(d))
	}
	return arr
}

// ToJointState converts a joint snapshot into its wire form.
func ToJointState(js core.JointState) *streaming.JointState {
	return &streaming.JointState{
		Header:   streaming.Header{Stamp: js.Stamp},
		Name:     js.Name,
		Position: js.Position,
		Velocity: js.Velocity,
		Effort:   js.Effort,
	}
}
