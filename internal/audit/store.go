package audit

import "context"

// Store persists attempt records. Implementations are append-only; records
// are independent so concurrent writers need no cross-request coordination.
type Store interface {
	// Append durably stores one attempt.
	Append(ctx context.Context, attempt Attempt) error

	// ListByUser returns a page of the user's attempts, newest first, plus
	// the total count across all pages.
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]Attempt, int, error)

	// StatsByUser aggregates counts and averages over the user's attempts.
	// Zero-valued Stats when the user has none.
	StatsByUser(ctx context.Context, userID string) (Stats, error)
}
