package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/internal/metrics"
)

// Mock is an Application for command tests. Unset hooks fall back to a nil
// client, a no-op logger, table output, nil metrics and "dev" build info.
type Mock struct {
	TrailmapFunc     func(ctx context.Context) (trailmap.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	MetricsFunc      func() *metrics.Metrics
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

var _ Application = (*Mock)(nil)

func call[T any](f func() T, fallback T) T {
	if f == nil {
		return fallback
	}
	return f()
}

// Trailmap calls TrailmapFunc.
func (m *Mock) Trailmap(ctx context.Context) (trailmap.Client, error) {
	if m.TrailmapFunc == nil {
		return nil, nil
	}
	return m.TrailmapFunc(ctx)
}

// Logger calls LoggerFunc.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.LoggerFunc()
}

func (m *Mock) OutputFormat() string { return call(m.OutputFormatFunc, "table") }
func (m *Mock) Metrics() *metrics.Metrics { return call(m.MetricsFunc, nil) }
func (m *Mock) Version() string { return call(m.VersionFunc, "dev") }
func (m *Mock) Commit() string { return call(m.CommitFunc, "none") }
func (m *Mock) Date() string { return call(m.DateFunc, "unknown") }
func (m *Mock) BuiltBy() string { return call(m.BuiltByFunc, "test") }
