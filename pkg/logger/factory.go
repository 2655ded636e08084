package logger

import (
	"io"
	"log/slog"
	"os"
)

// Option configures the logger factory.
type Option func(*config)

type config struct {
	writer    io.Writer
	level     slog.Level
	component string
}

func defaultConfig() *config {
	return &config{
		writer: os.Stdout,
		level:  slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level.
// Default: slog.LevelInfo
func WithLevel(l slog.Level) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithWriter sets the log output destination.
// Default: os.Stdout
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.writer = w
	}
}

// WithComponent attaches a static "component" attribute to every record,
// useful when several subsystems share one process.
func WithComponent(name string) Option {
	return func(c *config) {
		c.component = name
	}
}

// New creates a JSON-formatted logger.
func New(opts ...Option) *slog.Logger {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}

	log := slog.New(slog.NewJSONHandler(c.writer, &slog.HandlerOptions{
		Level: c.level,
	}))
	if c.component != "" {
		log = log.With(slog.String("component", c.component))
	}
	return log
}
