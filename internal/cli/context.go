package cli

import (
	"context"

	"github.com/thenoetrevino/kanrank/internal/app"
)

type appContextKey struct{}

// WithApp returns a context carrying an existing App. Commands run with it
// use that App instead of opening the configured database.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appContextKey{}, a)
}

// GetCLIFromContext returns a CLI for the App in ctx, or initializes a new
// one from the configuration
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appContextKey{}).(*app.App); ok && a != nil {
		// The App belongs to the caller; closing this CLI leaves its store open
		return &CLI{App: a}, nil
	}
	return NewCLI(ctx)
}
