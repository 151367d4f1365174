package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/kanrank/internal/config"
	"github.com/thenoetrevino/kanrank/internal/events"
	"github.com/thenoetrevino/kanrank/internal/logging"
	"github.com/thenoetrevino/kanrank/internal/types"
)

func main() {
	column := flag.Int("column", 0, "only print events for this column")
	flag.Parse()

	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logging.Init(cfg.Log.Level); err != nil {
		slog.Warn("failed to initialize logging", "error", err)
	}

	if cfg.Events.RedisURL == "" {
		slog.Error("no redis url configured", "hint", "set KANRANK_REDIS_URL")
		os.Exit(1)
	}

	publisher, err := events.NewRedisPublisher(ctx, cfg.Events.RedisURL, cfg.Events.Channel)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = publisher.Close() }()

	slog.Info("kanrank watcher starting", "column", *column, "pid", os.Getpid())

	// Blocks until shutdown
	if err := events.Watch(ctx, publisher, os.Stdout, types.ColumnIDFromInt(*column)); err != nil {
		slog.Error("watch error", "error", err)
		os.Exit(1)
	}

	slog.Info("kanrank watcher shutting down gracefully")
}
