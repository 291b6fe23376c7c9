package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotcontrol/vispub/pkg/streaming"
)

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())
	assert.False(t, c.Binary())

	c, err = New("msgpack")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Name())
	assert.True(t, c.Binary())

	_, err = New("protobuf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown codec")
}

func TestJSON_EnvelopeFieldNames(t *testing.T) {
	data, err := JSON{}.Marshal(streaming.Envelope{
		Type:    streaming.TypeMarkerArray,
		Topic:   "/arrow",
		Payload: streaming.DeleteAll(),
	})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"type":"marker_array"`)
	assert.Contains(t, s, `"topic":"/arrow"`)
	assert.Contains(t, s, `"action":3`)
}

func TestMsgpack_UsesJSONTags(t *testing.T) {
	c := Msgpack{}
	data, err := c.Marshal(streaming.Envelope{Type: streaming.TypeJointState, Topic: "/joint_states"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, c.Unmarshal(data, &decoded))
	assert.Equal(t, "joint_state", decoded["type"])
	assert.Equal(t, "/joint_states", decoded["topic"])
}

func TestMsgpack_MarkerArray(t *testing.T) {
	c := Msgpack{}
	in := streaming.MarkerArray{Markers: []streaming.Marker{{
		ID:     4,
		Type:   streaming.MarkerSphere,
		Scale:  streaming.Point{X: 0.1, Y: 0.1, Z: 0.1},
		Color:  streaming.ColorRGBA{R: 1, A: 0.5},
		Header: streaming.Header{FrameID: "world"},
	}}}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out streaming.MarkerArray
	require.NoError(t, c.Unmarshal(data, &out))
	require.Len(t, out.Markers, 1)
	assert.Equal(t, 4, out.Markers[0].ID)
	assert.Equal(t, streaming.MarkerSphere, out.Markers[0].Type)
	assert.Equal(t, "world", out.Markers[0].Header.FrameID)
	assert.Equal(t, float32(0.5), out.Markers[0].Color.A)
}
