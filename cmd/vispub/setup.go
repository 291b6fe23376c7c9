package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/robotcontrol/vispub/internal/config"
	"github.com/robotcontrol/vispub/internal/logging"
	intOtel "github.com/robotcontrol/vispub/internal/otel"
)

// app bundles the logging and telemetry set up for one run.
type app struct {
	logger     *slog.Logger
	logManager *logging.SlogManager
	zlog       zerolog.Logger
	otel       *intOtel.Provider

	logFile     *os.File
	logFilePath string
	graylog     *gelf.Writer
}

// setupApp opens the log file and wires slog, zerolog, Graylog and OTel.
// Failures of optional sinks are logged and skipped.
func setupApp(nodeName string, start time.Time) *app {
	a := &app{logManager: logging.NewSlogManager()}
	level := config.GetString("logLevel")

	// Console logging until the file is open.
	a.logManager.Setup(nil, level, nil)
	logger := a.logManager.Logger()

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		logger.Warn("Failed to create logs directory, logging to console", "error", err, "path", logsDir)
	} else {
		a.logFilePath = logging.LogFilePath(logsDir, nodeName, start)
		f, err := os.OpenFile(a.logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger.Error("Failed to create/open log file!", "error", err, "path", a.logFilePath)
		} else {
			a.logFile = f
		}
	}

	var extraHandlers []slog.Handler
	var extraWriters []io.Writer
	if gc := config.GetGraylogConfig(); gc.Enabled {
		w, err := logging.NewGraylogWriter(gc.Address, "vispub")
		if err != nil {
			logger.Error("Failed to set up Graylog", "error", err, "address", gc.Address)
		} else {
			a.graylog = w
			extraHandlers = append(extraHandlers, logging.NewGraylogHandler(w, level))
			extraWriters = append(extraWriters, w)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if oc := config.GetOTelConfig(); oc.Enabled {
		var otelWriter io.Writer
		if a.logFile != nil {
			otelWriter = a.logFile
		}
		p, err := intOtel.New(oc, otelWriter)
		if err != nil {
			logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			a.otel = p
			otelLogProvider = p.LoggerProvider()
			logger.Info("OTel provider initialized", "endpoint", oc.Endpoint)
		}
	}

	a.logManager.SetContext(func() []slog.Attr {
		return []slog.Attr{slog.String("node", nodeName)}
	})

	var file io.Writer
	if a.logFile != nil {
		file = a.logFile
	}
	a.logManager.Setup(file, level, otelLogProvider, extraHandlers...)
	a.logger = a.logManager.Logger()
	a.zlog = logging.NewZerolog(file, level, extraWriters...).With().Str("node", nodeName).Logger()

	if a.logFilePath != "" {
		a.logger.Info("Logging to file", "path", a.logFilePath)
	}
	return a
}

// Logger returns the slog logger of the run.
func (a *app) Logger() *slog.Logger {
	return a.logger
}

// close flushes telemetry and closes every sink.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.logManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "log flush failed: %v\n", err)
	}
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "otel shutdown failed: %v\n", err)
		}
	}
	if a.graylog != nil {
		_ = a.graylog.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
