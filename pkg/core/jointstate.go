package core

import "time"

// JointState is one snapshot of the actuated joints. The three value
// slices have one entry per name.
type JointState struct {
	Stamp    time.Time
	Name     []string
	Position []float64
	Velocity []float64
	Effort   []float64
}
