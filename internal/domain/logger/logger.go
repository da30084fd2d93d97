package logger

// Logger is the structured logging interface used across the application.
// It follows the slog-style key-value pattern; *slog.Logger satisfies it.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, keysAndValues ...any)
}
