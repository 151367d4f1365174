package app

import (
	"log/slog"

	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/events"
	"github.com/thenoetrevino/kanrank/internal/metrics"
	"github.com/thenoetrevino/kanrank/internal/rank"
	columnservice "github.com/thenoetrevino/kanrank/internal/services/column"
	"github.com/thenoetrevino/kanrank/internal/services/placement"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	store *database.Store

	// Change notifications for other processes
	eventClient events.EventPublisher

	logger *slog.Logger

	// Metrics counts placement outcomes for this process
	Metrics *metrics.Metrics

	// Service layer (business logic)
	PlacementService placement.Service
	ColumnService    columnservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(store *database.Store, engine *rank.Engine, opts ...Option) *App {
	cfg := &appConfig{
		maxAttempts:    placement.DefaultMaxAttempts,
		retryBaseDelay: placement.DefaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	m := metrics.New()
	return &App{
		store:       store,
		eventClient: cfg.eventClient,
		logger:      cfg.logger,
		Metrics:     m,
		PlacementService: placement.NewService(store, engine, cfg.eventClient,
			placement.WithMetrics(m),
			placement.WithLogger(cfg.logger),
			placement.WithRetry(cfg.maxAttempts, cfg.retryBaseDelay)),
		ColumnService: columnservice.NewService(store),
	}
}

// Store returns the underlying store for direct database access
func (a *App) Store() *database.Store {
	return a.store
}

// Close logs the metrics of this run and closes the event publisher.
// The store is owned by the caller and stays open.
func (a *App) Close() error {
	snap := a.Metrics.GetSnapshot()
	a.logger.Debug("placement metrics",
		"placements", snap.Placements,
		"no_ops", snap.NoOps,
		"rebalances", snap.Rebalances,
		"conflict_retries", snap.ConflictRetries,
		"conflict_failures", snap.ConflictFailures,
		"rebalance_failures", snap.RebalanceFailures,
		"uptime", snap.Uptime)

	if a.eventClient != nil {
		return a.eventClient.Close()
	}
	return nil
}
