// Package core holds the robot-side domain types: vectors, colours,
// drawable primitives, the robot model and joint snapshots.
package core

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in the visual frame.
type Vec3 = r3.Vec

// Color is the closed set of colours a drawable can carry.
type Color int

const (
	// ColorUnspecified is used for any colour name that is not recognised.
	ColorUnspecified Color = iota
	ColorRed
	ColorGreen
	ColorBlue
)

// ParseColor maps a colour name to a Color. Unknown names degrade to
// ColorUnspecified rather than failing.
func ParseColor(name string) Color {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return ColorRed
	case "green":
		return ColorGreen
	case "blue":
		return ColorBlue
	default:
		return ColorUnspecified
	}
}

// RGB returns the fixed triple for the colour. ColorUnspecified is black,
// the zero value a freshly built marker carries.
func (c Color) RGB() (r, g, b float32) {
	switch c {
	case ColorRed:
		return 1, 0, 0
	case ColorGreen:
		return 0, 1, 0
	case ColorBlue:
		return 0, 0, 1
	default:
		return 0, 0, 0
	}
}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "unspecified"
	}
}
