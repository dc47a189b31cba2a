// Package revalidate invalidates cached page renders after a mutation. Pages
// are cached in Redis under opaque path keys; deleting the key forces the
// next request to re-render.
package revalidate

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "page:"

// Revalidator deletes cached page entries.
type Revalidator struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a new Revalidator.
func New(client *redis.Client, logger *slog.Logger) *Revalidator {
	return &Revalidator{client: client, logger: logger}
}

// PageKey returns the cache key for a page path. The path is an opaque token
// supplied by the caller; it is never parsed or routed on.
func PageKey(path string) string {
	return keyPrefix + path
}

// Invalidate deletes the cache entries for the given page paths. A failed
// invalidation is logged but not returned: the mutation already happened and
// a stale page is preferable to reporting failure for committed work.
func (r *Revalidator) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = PageKey(p)
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.WarnContext(ctx, "page revalidation failed",
			slog.Any("paths", paths),
			slog.String("error", err.Error()),
		)
		return
	}

	r.logger.DebugContext(ctx, "pages revalidated", slog.Any("paths", paths))
}
