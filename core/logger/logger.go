package logger

import (
	"io"
	"log/slog"
	"os"
)

type settings struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// Option configures the logger factory.
type Option func(*settings)

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(s *settings) {
		s.level = level
	}
}

// WithJSONFormatter switches output to JSON format.
func WithJSONFormatter() Option {
	return func(s *settings) {
		s.json = true
	}
}

// WithTextFormatter switches output to human-readable text format.
func WithTextFormatter() Option {
	return func(s *settings) {
		s.json = false
	}
}

// WithOutput sets the log destination.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		s.output = w
	}
}

// WithAttr attaches a static attribute to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) {
		s.attrs = append(s.attrs, attrs...)
	}
}

// WithDevelopment configures text output at debug level with an app attribute.
func WithDevelopment(app string) Option {
	return func(s *settings) {
		s.json = false
		s.level = slog.LevelDebug
		s.attrs = append(s.attrs, slog.String("app", app))
	}
}

// WithProduction configures JSON output at info level with an app attribute.
func WithProduction(app string) Option {
	return func(s *settings) {
		s.json = true
		s.level = slog.LevelInfo
		s.attrs = append(s.attrs, slog.String("app", app))
	}
}

// New creates a slog.Logger from the given options.
// Defaults: text format, info level, stdout.
func New(opts ...Option) *slog.Logger {
	s := settings{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	ho := &slog.HandlerOptions{Level: s.level}

	var h slog.Handler
	if s.json {
		h = slog.NewJSONHandler(s.output, ho)
	} else {
		h = slog.NewTextHandler(s.output, ho)
	}

	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}

	return slog.New(h)
}

// Discard returns a logger that drops every record. Used as the default in
// components that accept an optional logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
