package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/influx"
	"github.com/robotcontrol/vispub/internal/node"
	"github.com/robotcontrol/vispub/internal/publisher"
	"github.com/robotcontrol/vispub/pkg/core"
)

func runPublisher(cmd *cobra.Command, args []string) error {
	start := time.Now()

	loadErr := config.Load(configDir)
	if loadErr != nil {
		config.SetDefaults()
	}

	nodeName := node.Name(config.GetNodeConfig().Name, func() string {
		return uuid.NewString()[:8]
	})

	a := setupApp(nodeName, start)
	defer a.close()
	logger := a.Logger()

	if loadErr != nil {
		logger.Warn("Failed to load config, using defaults", "error", loadErr, "dir", configDir)
	}

	pubCfg := config.GetPublisherConfig()
	period := pubCfg.Period()
	if period <= 0 {
		return fmt.Errorf("publisher.rate must be positive, got %v", pubCfg.Rate)
	}

	n := node.New(nodeName, logger)

	tr, err := createTransport(config.GetTransportConfig(), transportDeps{
		Node:   nodeName,
		Topics: []string{pubCfg.JointTopic, pubCfg.MarkerTopic, pubCfg.ArrowTopic},
		Logger: logger,
		ZLog:   a.zlog,
	})
	if err != nil {
		return err
	}
	if err := tr.Init(); err != nil {
		return fmt.Errorf("init transport: %w", err)
	}
	defer func() {
		if err := tr.Close(); err != nil {
			logger.Error("Failed to close transport", "error", err)
		}
	}()

	deps := publisher.Dependencies{
		Transport: tr,
		Node:      n,
		Logger:    logger,
	}

	if ic := config.GetInfluxConfig(); ic.Enabled {
		backup := filepath.Join(config.GetString("logsDir"), nodeName+"_influx.lp.gz")
		im := influx.NewManager(ic, nodeName, a.zlog, backup)
		if err := im.Connect(); err != nil {
			logger.Error("Failed to connect to InfluxDB", "error", err)
		} else {
			defer im.Close()
			deps.Stats = im
		}
	}

	pub, err := publisher.New(pubCfg, deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	robotCfg := config.GetRobotConfig()
	return runLoop(ctx, pub, robotModel(robotCfg), loopOptions{
		Period:     period,
		MaxFrames:  maxFrames,
		OnlyVisual: pubCfg.OnlyVisual,
		Logger:     logger,
	})
}

type loopOptions struct {
	Period     time.Duration
	MaxFrames  int // 0 runs until ctx is done
	OnlyVisual bool
	Logger     *slog.Logger
}

// runLoop draws and publishes one frame per period until ctx is done, the
// node shuts down or MaxFrames frames were published. A failed publish ends
// the loop with its error; visuals still queued for that frame are dropped.
// The node is always deregistered on return.
func runLoop(ctx context.Context, pub *publisher.Publisher, model core.RobotModel, opts loopOptions) error {
	defer pub.Deregister()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(opts.Period)
	defer ticker.Stop()

	start := time.Now()
	frames := 0
	for {
		if pub.IsShuttingDown() {
			return nil
		}

		t := time.Since(start).Seconds()
		drawFrame(pub, t)

		var err error
		if opts.OnlyVisual {
			err = pub.PublishVisual()
		} else {
			n := model.ActiveJoints()
			err = pub.Publish(model, jointPositions(n, t), nil, nil)
		}
		if err != nil {
			markers, arrows := pub.DiscardVisual()
			logger.Error("Failed to publish frame", "frame", frames, "error", err,
				"droppedMarkers", markers, "droppedArrows", arrows)
			return fmt.Errorf("frame %d: %w", frames, err)
		}

		frames++
		if opts.MaxFrames > 0 && frames >= opts.MaxFrames {
			logger.Info("Frame limit reached", "frames", frames)
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("Stopping publisher", "frames", frames, "reason", context.Cause(ctx))
			return nil
		case <-ticker.C:
		}
	}
}
