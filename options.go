package curvature

import "log/slog"

type config struct {
	backend Backend
	logger  *slog.Logger
	workers int
}

func defaultConfig() config {
	return config{
		backend: DefaultBackend(),
		logger:  slog.New(slog.DiscardHandler),
		workers: 1,
	}
}

// Option configures an Engine.
type Option func(*config)

// WithBackend replaces the symbolic backend. A nil backend is ignored.
func WithBackend(b Backend) Option {
	return func(c *config) {
		if b != nil {
			c.backend = b
		}
	}
}

// WithLogger sets the logger stage progress is reported to at Debug level.
// The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers bounds how many components of a stage are derived
// concurrently. Values below 1 mean sequential evaluation, the default.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}
