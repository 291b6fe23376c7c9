// Package recorder persists every published message to a SQL database
// through gorm. Marker arrays are also flattened into one row per marker.
package recorder

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/robotcontrol/vispub/internal/convert"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

// Backend implements transport.Transport by inserting rows.
type Backend struct {
	db   *gorm.DB
	node string
	log  zerolog.Logger

	// onClose runs after the backend stops accepting messages, e.g. to
	// dump an in-memory database to disk.
	onClose func(db *gorm.DB) error

	open bool
	mu   sync.Mutex
}

// Option configures a Backend.
type Option func(*Backend)

// WithOnClose registers a hook that runs when the backend is closed.
func WithOnClose(fn func(db *gorm.DB) error) Option {
	return func(b *Backend) { b.onClose = fn }
}

// New creates a recorder writing to db.
func New(db *gorm.DB, node string, log zerolog.Logger, opts ...Option) *Backend {
	b := &Backend{
		db:   db,
		node: node,
		log:  log.With().Str("transport", "recorder").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init migrates the schema.
func (b *Backend) Init() error {
	b.log.Info().Str("dialect", b.db.Dialector.Name()).Msg("Migrating schema")
	if err := b.db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	b.mu.Lock()
	b.open = true
	b.mu.Unlock()
	return nil
}

// Close stops accepting messages, runs the close hook and closes the
// underlying connection pool.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	b.open = false

	if b.onClose != nil {
		if err := b.onClose(b.db); err != nil {
			b.log.Error().Err(err).Msg("Close hook failed")
		}
	}

	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func (b *Backend) PublishJointState(topic string, js *streaming.JointState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return transport.ErrClosed
	}

	_, err := b.insertMessage(b.db, streaming.TypeJointState, topic, js.Header.Stamp, js)
	return err
}

func (b *Backend) PublishMarkers(topic string, arr *streaming.MarkerArray) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return transport.ErrClosed
	}

	var stamp time.Time
	if len(arr.Markers) > 0 {
		stamp = arr.Markers[0].Header.Stamp
	}

	rows := make([]MarkerRecord, 0, len(arr.Markers))
	for _, m := range arr.Markers {
		wkt, err := convert.MarkerWKT(m)
		if err != nil {
			b.log.Warn().Err(err).Str("topic", topic).Msg("Storing marker without geometry")
		}
		rows = append(rows, MarkerRecord{
			Topic:    topic,
			MarkerID: m.ID,
			Type:     int(m.Type),
			Action:   int(m.Action),
			FrameID:  m.Header.FrameID,
			R:        m.Color.R,
			G:        m.Color.G,
			B:        m.Color.B,
			A:        m.Color.A,
			Geometry: wkt,
		})
	}

	// The message row and its marker rows land together or not at all.
	return b.db.Transaction(func(tx *gorm.DB) error {
		msg, err := b.insertMessage(tx, streaming.TypeMarkerArray, topic, stamp, arr)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].MessageID = msg.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert markers: %w", err)
		}
		return nil
	})
}

func (b *Backend) insertMessage(db *gorm.DB, msgType, topic string, stamp time.Time, payload any) (*MessageRecord, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	if stamp.IsZero() {
		stamp = time.Now()
	}

	rec := &MessageRecord{
		Node:    b.node,
		Topic:   topic,
		Type:    msgType,
		Stamp:   stamp,
		Payload: datatypes.JSON(raw),
	}
	if err := db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("insert %s: %w", msgType, err)
	}
	return rec, nil
}
