package logging

import "context"

// Log levels understood by every ColonyLogger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// ColonyLogger is the diagnostic sink of the colony. Implementations must
// never fail the caller.
type ColonyLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger ColonyLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) ColonyLogger {
	if logger, ok := ctx.Value(loggerKey).(ColonyLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// Tee fans each entry out to several loggers
func Tee(loggers ...ColonyLogger) ColonyLogger {
	return teeLogger(loggers)
}

type teeLogger []ColonyLogger

func (t teeLogger) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range t {
		if l != nil {
			l.Log(level, message, metadata)
		}
	}
}
