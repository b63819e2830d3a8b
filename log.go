package gemini

import (
	"time"

	"go.uber.org/zap"
)

// Field is a single structured logging attribute, produced by String, Int,
// Duration, Err, or Interface. It mirrors the closure-based field shape
// handlers and the core itself use to avoid a hard dependency on any one
// logging library's field type.
type Field func() (key string, value interface{})

// String creates a string-valued Field.
func String(key, value string) Field {
	return func() (string, interface{}) { return key, value }
}

// Int creates an int-valued Field.
func Int(key string, value int) Field {
	return func() (string, interface{}) { return key, value }
}

// Duration creates a time.Duration-valued Field.
func Duration(key string, value time.Duration) Field {
	return func() (string, interface{}) { return key, value }
}

// Err creates a Field carrying err under the conventional key "error". A
// nil err is still recorded, rather than silently dropped, so callers don't
// need to guard the call themselves.
func Err(err error) Field {
	return func() (string, interface{}) { return "error", err }
}

// Interface creates a Field carrying an arbitrary value, serialized however
// the underlying Logger sees fit.
func Interface(key string, value interface{}) Field {
	return func() (string, interface{}) { return key, value }
}

// Logger receives structured log entries from a Server and the handlers it
// invokes. Debug marks the per-request lifecycle (a request accepted,
// before it is known to succeed); Warn marks a recoverable anomaly that
// isn't itself a connection-ending failure; Error marks handler panics,
// returned errors, and I/O failures; Info marks overall server lifecycle
// events (startup, shutdown, a completed request).
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
}

// NopLogger discards every entry. Useful in tests that don't want log
// output interleaved with test failures.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field)            {}
func (NopLogger) Info(msg string, fields ...Field)             {}
func (NopLogger) Warn(msg string, fields ...Field)             {}
func (NopLogger) Error(msg string, err error, fields ...Field) {}

// zapLogger adapts a *zap.Logger to the Logger interface. It is the default
// Logger a Server uses when none is configured.
type zapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps z as a Logger.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// NewDefaultLogger builds a production zap.Logger (JSON encoding, epoch
// timestamps, info level) and wraps it as a Logger.
func NewDefaultLogger() Logger {
	z, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails if the process's stderr sink can't
		// be opened, which leaves nothing sensible to log to; fall back to
		// a logger that writes nowhere rather than panic in library code.
		return NopLogger{}
	}
	return &zapLogger{z: z}
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.z.Debug(msg, toZapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.z.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, toZapFields(fields)...)
}

func (l *zapLogger) Error(msg string, err error, fields ...Field) {
	if err != nil {
		fields = append(fields, String("error", err.Error()))
	}
	l.z.Error(msg, toZapFields(fields)...)
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		k, v := f()
		out[i] = zap.Any(k, v)
	}
	return out
}
