package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestNewLoggerFromConfigWritesFile(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	path := filepath.Join(t.TempDir(), "trailmap.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "warn",
		Format: "json",
		Output: path,
		Fields: map[string]any{"component": "test"},
	})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("visible")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "visible")
	assert.Contains(t, string(content), `"component":"test"`)
	assert.NotContains(t, string(content), "hidden")
}

func TestDiscardOutputAutoFormat(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	assert.NotPanics(t, func() {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "auto", Output: "discard"})
		logger.Info().Msg("dropped")
	})
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Info().Str("kind", "hikes").Msg("snapshot loaded")

	assert.True(t, captured.Contains("snapshot loaded"))
	assert.Len(t, captured.Lines(), 1)
}

func TestContextHelpers(t *testing.T) {
	captured := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), captured.Logger)
	ctx = logging.WithKind(ctx, "attractions")
	ctx = logging.WithOperation(ctx, "add")
	ctx = logging.WithRequestID(ctx, "req-1")

	logging.FromContext(ctx).Info().Msg("mutated")

	out := captured.Output()
	assert.Contains(t, out, `"kind":"attractions"`)
	assert.Contains(t, out, `"op":"add"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Equal(t, "req-1", logging.RequestID(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "true")

	cfg := logging.FromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.AddCaller)

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, "error", logging.FromEnv().Level)
}

func TestLevelAliases(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	for in, want := range map[string]zerolog.Level{
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"TRACE":   zerolog.TraceLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	} {
		l := logging.NewLoggerFromConfig(&logging.Config{Level: in, Output: "discard"})
		assert.Equal(t, want, l.GetLevel(), in)
	}
}
