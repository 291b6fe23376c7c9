package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/robotcontrol/vispub/internal/codec"
	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/database"
	"github.com/robotcontrol/vispub/internal/transport"
	"github.com/robotcontrol/vispub/internal/transport/memory"
	"github.com/robotcontrol/vispub/internal/transport/recorder"
	"github.com/robotcontrol/vispub/internal/transport/redis"
	"github.com/robotcontrol/vispub/internal/transport/websocket"
)

// ErrUnknownTransport is returned for an unrecognised transport.type.
var ErrUnknownTransport = errors.New("unknown transport type")

type transportDeps struct {
	Node   string
	Topics []string
	Logger *slog.Logger
	ZLog   zerolog.Logger
}

// createTransport builds the transport selected by cfg.Type. The returned
// transport is not yet initialised.
func createTransport(cfg config.TransportConfig, deps transportDeps) (transport.Transport, error) {
	switch cfg.Type {
	case "", "memory":
		return memory.New(cfg.Memory, deps.Node), nil

	case "websocket":
		c, err := codec.New(cfg.Codec)
		if err != nil {
			return nil, err
		}
		return websocket.New(cfg.WebSocket, c, deps.Node, deps.Topics, deps.Logger), nil

	case "redis":
		c, err := codec.New(cfg.Codec)
		if err != nil {
			return nil, err
		}
		return redis.New(cfg.Redis, c, deps.ZLog), nil

	case "sqlite":
		db, err := database.GetSqliteDB(cfg.SQLite.Path, deps.ZLog)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		var opts []recorder.Option
		if cfg.SQLite.Path == database.MemoryPath && cfg.SQLite.DumpPath != "" {
			dumpPath := cfg.SQLite.DumpPath
			opts = append(opts, recorder.WithOnClose(func(db *gorm.DB) error {
				return database.DumpMemoryDBToDisk(db, dumpPath, deps.ZLog)
			}))
		}
		return recorder.New(db, deps.Node, deps.ZLog, opts...), nil

	case "postgres":
		db, err := database.GetPostgresDB(cfg.Postgres, deps.ZLog)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return recorder.New(db, deps.Node, deps.ZLog), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Type)
	}
}
