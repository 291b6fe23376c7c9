package recorder

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/robotcontrol/vispub/internal/database"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

var _ transport.Transport = (*Backend)(nil)

func newTestBackend(t *testing.T, opts ...Option) (*Backend, *gorm.DB) {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "rec.db"), zerolog.Nop())
	require.NoError(t, err)

	b := New(db, "node_1", zerolog.Nop(), opts...)
	require.NoError(t, b.Init())
	return b, db
}

func sampleArray(stamp time.Time) *streaming.MarkerArray {
	header := streaming.Header{Stamp: stamp, FrameID: "world"}
	return &streaming.MarkerArray{Markers: []streaming.Marker{
		{
			Header: header, ID: 0, Type: streaming.MarkerSphere, Action: streaming.ActionAdd,
			Pose:  streaming.Pose{Position: streaming.Point{X: 1, Y: 2, Z: 3}, Orientation: streaming.Quaternion{W: 1}},
			Scale: streaming.Point{X: 0.3, Y: 0.3, Z: 0.3},
			Color: streaming.ColorRGBA{B: 1, A: 0.5},
		},
		{
			Header: header, ID: 1, Type: streaming.MarkerArrow, Action: streaming.ActionAdd,
			Pose:   streaming.Pose{Orientation: streaming.Quaternion{W: 1}},
			Scale:  streaming.Point{X: 0.02, Y: 0.04, Z: 0.02},
			Color:  streaming.ColorRGBA{R: 1, A: 1},
			Points: []streaming.Point{{}, {X: 1}},
		},
	}}
}

func TestPublishMarkers_WritesMessageAndMarkers(t *testing.T) {
	b, db := newTestBackend(t)
	defer b.Close()

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.PublishMarkers("/vis", sampleArray(stamp)))

	var msgs []MessageRecord
	require.NoError(t, db.Find(&msgs).Error)
	require.Len(t, msgs, 1)
	assert.Equal(t, "node_1", msgs[0].Node)
	assert.Equal(t, "/vis", msgs[0].Topic)
	assert.Equal(t, streaming.TypeMarkerArray, msgs[0].Type)
	assert.True(t, stamp.Equal(msgs[0].Stamp))

	var payload streaming.MarkerArray
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Len(t, payload.Markers, 2)

	var markers []MarkerRecord
	require.NoError(t, db.Order("marker_id").Find(&markers).Error)
	require.Len(t, markers, 2)
	assert.Equal(t, msgs[0].ID, markers[0].MessageID)
	assert.Equal(t, int(streaming.MarkerSphere), markers[0].Type)
	assert.Equal(t, "world", markers[0].FrameID)
	assert.Equal(t, float32(1), markers[0].B)
	assert.Equal(t, float32(0.5), markers[0].A)
	assert.True(t, strings.HasPrefix(markers[0].Geometry, "POINT Z"))
	assert.Equal(t, int(streaming.MarkerArrow), markers[1].Type)
	assert.True(t, strings.HasPrefix(markers[1].Geometry, "LINESTRING Z"))
}

func TestPublishMarkers_DeleteAll(t *testing.T) {
	b, db := newTestBackend(t)
	defer b.Close()

	require.NoError(t, b.PublishMarkers("/arrow", streaming.DeleteAll()))

	var markers []MarkerRecord
	require.NoError(t, db.Find(&markers).Error)
	require.Len(t, markers, 1)
	assert.Equal(t, int(streaming.ActionDeleteAll), markers[0].Action)
	assert.Empty(t, markers[0].Geometry)

	var msg MessageRecord
	require.NoError(t, db.First(&msg).Error)
	assert.False(t, msg.Stamp.IsZero())
}

func TestPublishMarkers_EmptyArray(t *testing.T) {
	b, db := newTestBackend(t)
	defer b.Close()

	require.NoError(t, b.PublishMarkers("/vis", &streaming.MarkerArray{}))

	var count int64
	require.NoError(t, db.Model(&MessageRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&MarkerRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPublishJointState(t *testing.T) {
	b, db := newTestBackend(t)
	defer b.Close()

	js := &streaming.JointState{
		Header:   streaming.Header{Stamp: time.Now()},
		Name:     []string{"j1", "j2"},
		Position: []float64{0.1, 0.2},
		Velocity: []float64{0, 0},
		Effort:   []float64{0, 0},
	}
	require.NoError(t, b.PublishJointState("/joint_states", js))

	var msg MessageRecord
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, streaming.TypeJointState, msg.Type)

	var got streaming.JointState
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, js.Name, got.Name)
	assert.Equal(t, js.Position, got.Position)
}

func TestPublish_AfterClose(t *testing.T) {
	b, _ := newTestBackend(t)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.PublishMarkers("/vis", &streaming.MarkerArray{}), transport.ErrClosed)
	assert.ErrorIs(t, b.PublishJointState("/joint_states", &streaming.JointState{}), transport.ErrClosed)
}

func TestClose_RunsHook(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dump.db")

	db, err := database.GetSqliteDB(database.MemoryPath, zerolog.Nop())
	require.NoError(t, err)
	b := New(db, "node_1", zerolog.Nop(), WithOnClose(func(db *gorm.DB) error {
		return database.DumpMemoryDBToDisk(db, out, zerolog.Nop())
	}))
	require.NoError(t, b.Init())
	require.NoError(t, b.PublishMarkers("/vis", sampleArray(time.Now())))
	require.NoError(t, b.Close())

	disk, err := database.GetSqliteDB(out, zerolog.Nop())
	require.NoError(t, err)
	var count int64
	require.NoError(t, disk.Model(&MarkerRecord{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPublishMarkers_FailedMarkerInsertLeavesNoMessage(t *testing.T) {
	b, db := newTestBackend(t)
	defer b.Close()

	require.NoError(t, db.Migrator().DropTable(&MarkerRecord{}))

	err := b.PublishMarkers("/vis", sampleArray(time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert markers")

	var count int64
	require.NoError(t, db.Model(&MessageRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPublishMarkers_ZeroLengthArrowStoredWithoutGeometry(t *testing.T) {
	b, db := newTestBackend(t)
	defer b.Close()

	arr := &streaming.MarkerArray{Markers: []streaming.Marker{{
		ID: 0, Type: streaming.MarkerArrow, Action: streaming.ActionAdd,
		Points: []streaming.Point{{X: 1}, {X: 1}},
	}}}
	require.NoError(t, b.PublishMarkers("/arrow", arr))

	var markers []MarkerRecord
	require.NoError(t, db.Find(&markers).Error)
	require.Len(t, markers, 1)
	assert.Empty(t, markers[0].Geometry)
}
