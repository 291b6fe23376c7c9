package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/publisher"
	"github.com/robotcontrol/vispub/pkg/core"
)

const (
	comHeight      = 0.3
	footFriction   = 0.6
	forceScale     = 0.02 // metres per newton
	comRadius      = 0.05
	jointAmplitude = 0.4
)

// Contact points of the four feet in the base frame.
var feet = []core.Vec3{
	{X: 0.2, Y: 0.15},
	{X: 0.2, Y: -0.15},
	{X: -0.2, Y: 0.15},
	{X: -0.2, Y: -0.15},
}

// drawFrame queues the centre of mass and, per foot, the contact force and
// its friction cone.
func drawFrame(pub *publisher.Publisher, t float64) {
	com := core.Vec3{X: 0.02 * math.Sin(t), Z: comHeight}
	pub.AddMarker(com, publisher.WithRadius(comRadius), publisher.WithColor(core.ColorBlue))

	normal := core.Vec3{Z: 1}
	for i, foot := range feet {
		weight := 9.81 * 2.5 * (1 + 0.25*math.Sin(t+float64(i)*math.Pi/2))
		force := core.Vec3{Z: weight}
		pub.AddArrow(foot, r3.Scale(forceScale, force))
		pub.AddCone(foot, normal, footFriction)
	}
}

// jointPositions returns a gait-like sinusoid for n joints.
func jointPositions(n int, t float64) []float64 {
	q := make([]float64, n)
	for i := range q {
		q[i] = jointAmplitude * math.Sin(t+float64(i)*math.Pi/6)
	}
	return q
}

func robotModel(cfg config.RobotConfig) core.StaticModel {
	return core.StaticModel{
		Names: cfg.JointNames,
		NQ:    cfg.NQ,
		NV:    cfg.NV,
	}
}
