package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds every repository round trip, including the
// checkout transaction, so a stuck cart row lock cannot hold a request open
// indefinitely.
const DefaultDBTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
