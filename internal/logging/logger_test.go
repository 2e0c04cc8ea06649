package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelWarn,
		"":        slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in, slog.LevelWarn), in)
	}
}

func TestNewLoggerDebug(t *testing.T) {
	t.Setenv("TREB_DAO_LOG_LEVEL", "error")

	logger := NewLogger(&config.RuntimeConfig{})
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))

	logger = NewLogger(&config.RuntimeConfig{Debug: true})
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/cast_vote.go", shortPath("/home/dev/src/treb-dao/internal/usecase/cast_vote.go"))
	assert.Equal(t, "main.go", shortPath("/somewhere/else/main.go"))
}
