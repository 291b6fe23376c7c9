package otel

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/robotcontrol/vispub/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(config.OTelConfig{}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NotNil(t, p.Meter("vispub"))
}

func TestNew_EnabledWithoutExporter(t *testing.T) {
	_, err := New(config.OTelConfig{Enabled: true, ServiceName: "vispub"}, nil)
	require.ErrorIs(t, err, ErrNoExporter)
}

func TestNew_ExportsToWriter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(config.OTelConfig{
		Enabled:      true,
		ServiceName:  "vispub-test",
		BatchTimeout: time.Second,
	}, &buf)
	require.NoError(t, err)
	require.True(t, p.Enabled())
	require.NotNil(t, p.LoggerProvider())

	logger := slog.New(otelslog.NewHandler("vispub", otelslog.WithLoggerProvider(p.LoggerProvider())))
	logger.Info("frame published", "topic", "/vis")

	require.NoError(t, p.Flush(context.Background()))
	assert.Contains(t, buf.String(), "frame published")
	assert.Contains(t, buf.String(), "vispub-test")
	assert.NoError(t, p.Shutdown(context.Background()))
}
