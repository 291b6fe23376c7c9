package main

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/database"
	"github.com/robotcontrol/vispub/internal/transport/memory"
	"github.com/robotcontrol/vispub/internal/transport/recorder"
	"github.com/robotcontrol/vispub/internal/transport/redis"
	"github.com/robotcontrol/vispub/internal/transport/websocket"
)

func testDeps() transportDeps {
	return transportDeps{
		Node:   "test_node",
		Topics: []string{"/joint_states", "/vis", "/arrow"},
		Logger: slog.Default(),
		ZLog:   zerolog.Nop(),
	}
}

func TestCreateTransport_Types(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.TransportConfig
		check func(t *testing.T, v any)
	}{
		{"default", config.TransportConfig{}, func(t *testing.T, v any) { assert.IsType(t, &memory.Backend{}, v) }},
		{"memory", config.TransportConfig{Type: "memory"}, func(t *testing.T, v any) { assert.IsType(t, &memory.Backend{}, v) }},
		{"websocket", config.TransportConfig{Type: "websocket", Codec: "msgpack"}, func(t *testing.T, v any) { assert.IsType(t, &websocket.Backend{}, v) }},
		{"redis", config.TransportConfig{Type: "redis", Codec: "json"}, func(t *testing.T, v any) { assert.IsType(t, &redis.Backend{}, v) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := createTransport(tt.cfg, testDeps())
			require.NoError(t, err)
			tt.check(t, tr)
		})
	}
}

func TestCreateTransport_UnknownType(t *testing.T) {
	_, err := createTransport(config.TransportConfig{Type: "carrier-pigeon"}, testDeps())
	require.ErrorIs(t, err, ErrUnknownTransport)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestCreateTransport_UnknownCodec(t *testing.T) {
	_, err := createTransport(config.TransportConfig{Type: "redis", Codec: "xml"}, testDeps())
	require.Error(t, err)
}

func TestCreateTransport_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.db")
	tr, err := createTransport(config.TransportConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: path},
	}, testDeps())
	require.NoError(t, err)
	assert.IsType(t, &recorder.Backend{}, tr)

	require.NoError(t, tr.Init())
	require.NoError(t, tr.Close())
	assert.FileExists(t, path)
}

func TestCreateTransport_SQLiteMemoryDump(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump.db")
	tr, err := createTransport(config.TransportConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: database.MemoryPath, DumpPath: dump},
	}, testDeps())
	require.NoError(t, err)

	require.NoError(t, tr.Init())
	require.NoError(t, tr.Close())
	assert.FileExists(t, dump)
}
