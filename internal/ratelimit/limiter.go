// Package ratelimit bounds verification attempts per user with a sliding
// window. Limiting is advisory for availability: a failing limiter store
// fails open so verification itself stays reachable.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Store answers whether one more event fits inside the window for a key.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Limiter applies a fixed limit/window pair to keys.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	logger *slog.Logger
}

// New builds a limiter. A non-positive limit disables limiting.
func New(store Store, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{store: store, limit: limit, window: window, logger: logger}
}

// Allow reports whether the key may proceed. Store errors fail open and are
// logged; rate limiting must not take verification down with it.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	allowed, err := l.store.Allow(ctx, key, l.limit, l.window)
	if err != nil {
		l.logger.ErrorContext(ctx, "rate limit check failed, allowing request",
			"key", key,
			"error", err,
		)
		return true
	}
	return allowed
}
