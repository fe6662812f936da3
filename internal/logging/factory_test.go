package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormatWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithFormat(FormatJSON), WithOutput(&buf), WithAttrs("app", "movieclient"))

	log.Info(context.Background(), "session restored", "user_id", "u-1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "session restored", rec["msg"])
	assert.Equal(t, "movieclient", rec["app"])
	assert.Equal(t, "u-1", rec["user_id"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithLevel(slog.LevelWarn), WithOutput(&buf))

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "hidden too")
	assert.Empty(t, buf.String())

	log.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestWithFormat_PanicsOnUnknown(t *testing.T) {
	require.Panics(t, func() { New(WithFormat("xml")) })
}

func TestWithOutput_IgnoresNil(t *testing.T) {
	require.NotPanics(t, func() {
		New(WithOutput(nil)).Info(context.Background(), "to stderr")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	require.NotPanics(t, func() {
		l := Nop()
		l.Error(context.Background(), "nothing", "k", "v")
		l.With("a", 1).Info(context.Background(), "still nothing")
	})
}
