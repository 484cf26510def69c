package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request_id"}
)

// WithLogger attaches logger to ctx; nil attaches the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// WithField returns ctx with its logger extended by one field.
func WithField(ctx context.Context, key string, value any) context.Context {
	l := FromContext(ctx).With().Interface(key, value).Logger()
	return WithLogger(ctx, &l)
}

// WithRequestID records the id on ctx and on its logger.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	l := FromContext(ctx).With().Str("request_id", id).Logger()
	return WithLogger(ctx, &l)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithKind tags the logger with the record kind being handled.
func WithKind(ctx context.Context, kind string) context.Context {
	l := FromContext(ctx).With().Str("kind", kind).Logger()
	return WithLogger(ctx, &l)
}

// WithOperation tags the logger with a remote operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	l := FromContext(ctx).With().Str("op", op).Logger()
	return WithLogger(ctx, &l)
}
