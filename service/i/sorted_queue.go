package i

import "context"

// SortedQueue is a persistent score-ordered collection. The session
// manager uses one as a bounded archive of finished search runs.
type SortedQueue interface {
	// Enqueue adds a member with the given score.
	Enqueue(ctx context.Context, queueKey string, score float64, member string) error

	// Tops returns up to `amount` members with the lowest scores without
	// removing them.
	Tops(ctx context.Context, queueKey string, amount int64) ([]string, error)

	// Count returns the number of members in the queue.
	Count(ctx context.Context, queueKey string) int64
}
