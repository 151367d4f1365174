package app

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/kanrank/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient    events.EventPublisher
	logger         *slog.Logger
	maxAttempts    int
	retryBaseDelay time.Duration
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithRetry sets how often a placement is attempted when it keeps
// conflicting with concurrent writers, and the first backoff delay
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(cfg *appConfig) {
		cfg.maxAttempts = maxAttempts
		cfg.retryBaseDelay = baseDelay
	}
}
