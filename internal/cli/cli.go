package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanrank/internal/app"
	"github.com/thenoetrevino/kanrank/internal/config"
	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/events"
	"github.com/thenoetrevino/kanrank/internal/logging"
	"github.com/thenoetrevino/kanrank/internal/rank"
)

// CLI represents the CLI application context
type CLI struct {
	App   *app.App // Application container with services
	store *database.Store
}

// NewCLI loads the configuration, opens the database and, when configured,
// connects the Redis event publisher
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.Log.Level); err != nil {
		// Logging is best effort; commands still work without a log file
		slog.Debug("failed to initialize logging", "error", err)
	}

	engine, err := rank.NewEngine(cfg.Rank)
	if err != nil {
		return nil, fmt.Errorf("invalid rank configuration: %w", err)
	}

	store, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	opts := []app.Option{
		app.WithRetry(cfg.Placement.MaxRetries, cfg.Placement.RetryBaseDelay()),
	}

	// Events are optional - silent fallback when Redis is unreachable
	if cfg.Events.RedisURL != "" {
		publisher, err := events.NewRedisPublisher(ctx, cfg.Events.RedisURL, cfg.Events.Channel)
		if err != nil {
			slog.Warn("events disabled", "error", err)
		} else {
			opts = append(opts, app.WithEventPublisher(publisher))
		}
	}

	return &CLI{
		App:   app.New(store, engine, opts...),
		store: store,
	}, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	err := c.App.Close()
	if c.store != nil {
		err = errors.Join(err, c.store.Close())
	}
	return err
}
