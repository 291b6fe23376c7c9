package core

// RobotModel is the read-only view of a kinematic model the publishers
// need. JointNames includes the leading non-actuated root joint.
type RobotModel interface {
	JointNames() []string
	ActiveJoints() int
	// Dimensions reports the configuration position (nq) and velocity (nv)
	// sizes. ok is false when the model cannot provide them.
	Dimensions() (nq, nv int, ok bool)
}

// StaticModel is a RobotModel backed by fixed values.
type StaticModel struct {
	Names  []string
	Active int
	NQ     int
	NV     int
}

// JointNames returns the full name list.
func (m StaticModel) JointNames() []string {
	return m.Names
}

// ActiveJoints returns the number of actuated joints. When Active is unset
// every name but the root counts.
func (m StaticModel) ActiveJoints() int {
	if m.Active > 0 {
		return m.Active
	}
	if len(m.Names) == 0 {
		return 0
	}
	return len(m.Names) - 1
}

// Dimensions reports NQ and NV when both are set.
func (m StaticModel) Dimensions() (nq, nv int, ok bool) {
	if m.NQ <= 0 || m.NV <= 0 {
		return 0, 0, false
	}
	return m.NQ, m.NV, true
}
