// Package redis publishes joint states and marker arrays on Redis pub/sub
// channels, one channel per topic.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/robotcontrol/vispub/internal/codec"
	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/pkg/streaming"
)

// Backend implements transport.Transport on top of a redis client.
type Backend struct {
	cfg    config.RedisConfig
	codec  codec.Codec
	client *redis.Client
	log    zerolog.Logger

	mu sync.RWMutex
}

// New creates a redis transport. The connection is opened by Init.
func New(cfg config.RedisConfig, c codec.Codec, log zerolog.Logger) *Backend {
	if c == nil {
		c = codec.JSON{}
	}
	return &Backend{
		cfg:   cfg,
		codec: c,
		log:   log.With().Str("transport", "redis").Logger(),
	}
}

// Init connects and verifies the server answers PING.
func (b *Backend) Init() error {
	client := redis.NewClient(&redis.Options{
		Addr:         b.cfg.Address,
		Password:     b.cfg.Password,
		DB:           b.cfg.DB,
		ReadTimeout:  b.cfg.Timeout,
		WriteTimeout: b.cfg.Timeout,
		// Servers before 7.2 reject CLIENT SETINFO in the handshake.
		DisableIndentity: true,
	})

	ctx, cancel := b.context()
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	b.mu.Lock()
	b.client = client
	b.mu.Unlock()

	b.log.Info().Str("address", b.cfg.Address).Str("prefix", b.cfg.Prefix).Msg("Connected to Redis")
	return nil
}

// Close releases the client. Publishing afterwards returns transport.ErrClosed.
func (b *Backend) Close() error {
	b.mu.Lock()
	client := b.client
	b.client = nil
	b.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

func (b *Backend) context() (context.Context, context.CancelFunc) {
	if b.cfg.Timeout > 0 {
		return context.WithTimeout(context.Background(), b.cfg.Timeout)
	}
	return context.WithCancel(context.Background())
}

// Channel returns the redis channel a topic is published on.
func (b *Backend) Channel(topic string) string {
	return b.cfg.Prefix + topic
}

func (b *Backend) publish(msgType, topic string, payload any) error {
	b.mu.RLock()
	client := b.client
	b.mu.RUnlock()

	if client == nil {
		return transport.ErrClosed
	}

	data, err := b.codec.Marshal(streaming.Envelope{Type: msgType, Topic: topic, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}

	ctx, cancel := b.context()
	defer cancel()

	receivers, err := client.Publish(ctx, b.Channel(topic), data).Result()
	if err != nil {
		return fmt.Errorf("publish on %s: %w", topic, err)
	}
	if receivers == 0 {
		b.log.Trace().Str("topic", topic).Msg("No subscribers")
	}
	return nil
}

func (b *Backend) PublishJointState(topic string, js *streaming.JointState) error {
	return b.publish(streaming.TypeJointState, topic, js)
}

func (b *Backend) PublishMarkers(topic string, arr *streaming.MarkerArray) error {
	return b.publish(streaming.TypeMarkerArray, topic, arr)
}
