package internal

import "time"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	clock  func() time.Time
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClock overrides the time source used to stamp generated artifacts.
// Tests pin it to get reproducible output.
func WithClock(clock func() time.Time) Option {
	return func(a *application) {
		a.clock = clock
	}
}
