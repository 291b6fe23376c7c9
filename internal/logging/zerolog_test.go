package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseZerologLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseZerologLevel(tt.input))
		})
	}
}

func TestNewZerolog_FileAndExtra(t *testing.T) {
	var file, extra bytes.Buffer
	log := NewZerolog(&file, "info", &extra)

	log.Info().Str("topic", "/vis").Msg("sent")
	log.Debug().Msg("hidden")

	assert.Contains(t, file.String(), "sent")
	assert.Contains(t, file.String(), "topic=/vis")
	assert.NotContains(t, file.String(), "hidden")
	assert.Contains(t, extra.String(), `"message":"sent"`)
	assert.Contains(t, extra.String(), `"topic":"/vis"`)
}
