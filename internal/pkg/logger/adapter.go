package logger

import "portfolio_dashboard/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level slog logger.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter creates a port.Logger that writes through the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// Named returns an adapter that tags every record with component=name.
func Named(name string) port.Logger {
	return &slogAdapter{attrs: []any{"component", name}}
}

func (a *slogAdapter) with(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	return append(append([]any{}, a.attrs...), args...)
}

// Info logs an informational message.
func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.with(args)...)
}

// Debug logs a debug message.
func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.with(args)...)
}

// Warn logs a warning.
func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.with(args)...)
}

// Error logs an error.
func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.with(args)...)
}
