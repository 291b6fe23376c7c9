package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/node"
	"github.com/robotcontrol/vispub/internal/publisher"
	"github.com/robotcontrol/vispub/internal/transport/memory"
	"github.com/robotcontrol/vispub/pkg/core"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

func newRunPublisher(t *testing.T, onlyVisual bool) (*publisher.Publisher, *memory.Backend, *node.Node) {
	t.Helper()
	backend := memory.New(config.MemoryConfig{}, "run_test")
	require.NoError(t, backend.Init())
	t.Cleanup(func() { _ = backend.Close() })

	n := node.New("run_test", nil)
	pub, err := publisher.New(config.PublisherConfig{OnlyVisual: onlyVisual}, publisher.Dependencies{
		Transport: backend,
		Node:      n,
	})
	require.NoError(t, err)
	return pub, backend, n
}

func soloModel() core.StaticModel {
	return robotModel(config.RobotConfig{JointNames: config.DefaultJointNames, NQ: 19, NV: 18})
}

func TestRunLoop_MaxFrames(t *testing.T) {
	pub, backend, n := newRunPublisher(t, false)

	err := runLoop(t.Context(), pub, soloModel(), loopOptions{Period: time.Millisecond, MaxFrames: 3})
	require.NoError(t, err)

	msgs := backend.Messages()
	require.Len(t, msgs, 12)
	for i := 0; i < 3; i++ {
		frame := msgs[i*4 : i*4+4]
		assert.Equal(t, streaming.TypeJointState, frame[0].Type)
		assert.Equal(t, "/vis", frame[1].Topic)
		assert.Len(t, frame[1].Markers.Markers, 5)
		assert.Equal(t, "/arrow", frame[2].Topic)
		assert.Len(t, frame[2].Markers.Markers, 4)
		assert.True(t, frame[3].Markers.IsDeleteAll())
	}
	assert.Len(t, msgs[0].JointState.Name, 12)

	assert.True(t, n.IsShuttingDown())
	assert.Equal(t, "manual kill", n.Reason())
	floating, detected := pub.FloatingBase()
	assert.True(t, detected)
	assert.True(t, floating)
}

func TestRunLoop_OnlyVisual(t *testing.T) {
	pub, backend, _ := newRunPublisher(t, true)

	err := runLoop(t.Context(), pub, soloModel(), loopOptions{Period: time.Millisecond, MaxFrames: 2, OnlyVisual: true})
	require.NoError(t, err)

	msgs := backend.Messages()
	require.Len(t, msgs, 6)
	for _, m := range msgs {
		assert.Equal(t, streaming.TypeMarkerArray, m.Type)
	}
}

func TestRunLoop_StopsOnCancel(t *testing.T) {
	pub, backend, n := newRunPublisher(t, true)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := runLoop(ctx, pub, soloModel(), loopOptions{Period: time.Hour, OnlyVisual: true})
	require.NoError(t, err)
	assert.Len(t, backend.Messages(), 3)
	assert.True(t, n.IsShuttingDown())
}

func TestRunLoop_StopsWhenNodeShutsDown(t *testing.T) {
	pub, backend, n := newRunPublisher(t, true)
	n.Shutdown("external")

	err := runLoop(t.Context(), pub, soloModel(), loopOptions{Period: time.Millisecond, OnlyVisual: true})
	require.NoError(t, err)
	assert.Empty(t, backend.Messages())
	assert.Equal(t, "external", n.Reason())
}

func TestRunLoop_LengthMismatchAborts(t *testing.T) {
	pub, backend, _ := newRunPublisher(t, false)
	model := core.StaticModel{Names: []string{"universe", "a", "b"}, Active: 5}

	err := runLoop(t.Context(), pub, model, loopOptions{Period: time.Millisecond, MaxFrames: 2})
	require.ErrorIs(t, err, publisher.ErrLengthMismatch)
	assert.Empty(t, backend.Messages())
}

func TestJointPositions(t *testing.T) {
	q := jointPositions(12, 0)
	require.Len(t, q, 12)
	assert.Equal(t, 0.0, q[0])
	for _, v := range q {
		assert.LessOrEqual(t, v, jointAmplitude)
		assert.GreaterOrEqual(t, v, -jointAmplitude)
	}
}

func TestRobotModel(t *testing.T) {
	m := robotModel(config.RobotConfig{JointNames: []string{"universe", "j1"}, NQ: 1, NV: 1})
	assert.Equal(t, 1, m.ActiveJoints())
	nq, nv, ok := m.Dimensions()
	assert.True(t, ok)
	assert.Equal(t, 1, nq)
	assert.Equal(t, 1, nv)
}

// jointDown records markers in memory but fails every joint state.
type jointDown struct {
	*memory.Backend
}

var errJointDown = errors.New("joint topic unavailable")

func (jointDown) PublishJointState(string, *streaming.JointState) error {
	return errJointDown
}

func TestRunLoop_JointFailureStopsWithoutStaleVisuals(t *testing.T) {
	backend := memory.New(config.MemoryConfig{}, "run_test")
	require.NoError(t, backend.Init())
	t.Cleanup(func() { _ = backend.Close() })

	n := node.New("run_test", nil)
	pub, err := publisher.New(config.PublisherConfig{}, publisher.Dependencies{
		Transport: jointDown{backend},
		Node:      n,
	})
	require.NoError(t, err)

	err = runLoop(t.Context(), pub, soloModel(), loopOptions{Period: time.Millisecond, MaxFrames: 50})
	require.ErrorIs(t, err, errJointDown)

	markers, arrows := pub.Pending()
	assert.Zero(t, markers)
	assert.Zero(t, arrows)
	assert.Empty(t, backend.Messages())
	assert.True(t, n.IsShuttingDown())
}

func TestDrawFrame_ForceArrowsScaledToScene(t *testing.T) {
	pub, backend, _ := newRunPublisher(t, true)

	drawFrame(pub, 0)
	require.NoError(t, pub.PublishVisual())

	arrows := backend.OnTopic("/arrow")[0].Markers.Markers
	require.Len(t, arrows, 4)
	for _, m := range arrows {
		require.Len(t, m.Points, 2)
		length := m.Points[1].Z - m.Points[0].Z
		assert.Greater(t, length, 0.0)
		assert.Less(t, length, 1.0, "force arrow must stay within the scene")
		assert.InDelta(t, 0.02, m.Scale.X, 1e-9, "shaft keeps the default width")
	}
}
