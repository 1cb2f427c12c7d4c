package counter

import "context"

// Store is the durable backing for sequence allocation. Next must be a
// single atomic increment-and-fetch round trip to the store; a separate
// read-then-write would reintroduce the race it exists to prevent.
type Store interface {
	// Next atomically increments the named counter and returns the new
	// value. An unseen name is initialized to 0 first, so the first call
	// returns 1. For any N calls on the same name the returned set is
	// exactly {1..N} regardless of interleaving.
	Next(ctx context.Context, name string) (int64, error)

	// Current returns the counter's value without incrementing.
	// Unseen names read as 0.
	Current(ctx context.Context, name string) (int64, error)
}
