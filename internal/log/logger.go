package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger that always carries a component attribute.
type Logger struct {
	*slog.Logger
	component string
}

// Config controls handler construction.
type Config struct {
	Level     slog.Level
	Component string
	Format    string // "text" or "json"
	Output    io.Writer
}

// DefaultConfig reads LOG_LEVEL and LOG_FORMAT from the environment,
// falling back to info-level text on stdout.
func DefaultConfig() Config {
	return Config{
		Level:     parseLevel(os.Getenv("LOG_LEVEL")),
		Component: ComponentApp,
		Format:    strings.ToLower(os.Getenv("LOG_FORMAT")),
		Output:    os.Stdout,
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger; the component attribute is attached once here
// so every record carries it without per-call bookkeeping.
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: config.Level}
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, config.Component),
		component: config.Component,
	}
}

// With returns a logger with extra attributes attached.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
	}
}

// WithComponent returns a logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault makes logger back the package-level slog functions.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
