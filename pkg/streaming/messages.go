package streaming

import (
	"time"
)

// Message type constants matching the streaming protocol.
const (
	TypeAdvertise   = "advertise"
	TypeJointState  = "joint_state"
	TypeMarkerArray = "marker_array"
)

// MarkerType mirrors the visualization marker shape ids.
type MarkerType int

const (
	MarkerArrow  MarkerType = 0
	MarkerSphere MarkerType = 2
)

// MarkerAction mirrors the visualization marker actions.
type MarkerAction int

const (
	ActionAdd       MarkerAction = 0
	ActionDeleteAll MarkerAction = 3
)

// Envelope wraps every message sent over a streaming transport.
type Envelope struct {
	Type    string `json:"type"`
	Topic   string `json:"topic,omitempty"`
	Payload any    `json:"payload"`
}

// AckMessage is the consumer's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// AdvertisePayload announces the publishing node and its topics.
type AdvertisePayload struct {
	Node   string   `json:"node"`
	Topics []string `json:"topics"`
}

// Header carries the stamp and reference frame of a message.
type Header struct {
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frame_id"`
}

// JointState is the wire form of a joint snapshot.
type JointState struct {
	Header   Header    `json:"header"`
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
	Effort   []float64 `json:"effort"`
}

// Point is a 3D point; it also carries marker scale.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Pose is a position plus orientation.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// ColorRGBA is a colour with alpha, each channel in [0,1].
type ColorRGBA struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Marker is one rendered primitive or a directive such as delete-all.
type Marker struct {
	Header   Header        `json:"header"`
	ID       int           `json:"id"`
	Type     MarkerType    `json:"type"`
	Action   MarkerAction  `json:"action"`
	Pose     Pose          `json:"pose"`
	Scale    Point         `json:"scale"`
	Color    ColorRGBA     `json:"color"`
	Lifetime time.Duration `json:"lifetime"`
	Points   []Point       `json:"points,omitempty"`
}

// MarkerArray is one batch of markers sent as a single message.
type MarkerArray struct {
	Markers []Marker `json:"markers"`
}

// DeleteAll returns the directive that clears every marker the consumer
// currently shows.
func DeleteAll() *MarkerArray {
	return &MarkerArray{
		Markers: []Marker{{ID: 0, Action: ActionDeleteAll}},
	}
}

// IsDeleteAll reports whether the array is a delete-all directive.
func (a *MarkerArray) IsDeleteAll() bool {
	return a != nil && len(a.Markers) == 1 && a.Markers[0].Action == ActionDeleteAll
}
