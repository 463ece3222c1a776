package resilience

import (
	"context"

	"github.com/go-i2p/respool/lib/pool"
)

// GuardFactory wraps a pool factory so that creations pass through the
// given circuit breaker. While the circuit is open, create calls fail
// fast with ErrCircuitOpen instead of hammering an unhealthy backend;
// destroy and validate pass through untouched.
func GuardFactory[T any](f pool.Factory[T], cb *CircuitBreaker) pool.Factory[T] {
	create := f.Create
	f.Create = func(ctx context.Context) (T, error) {
		var out T
		err := cb.ExecuteWithContext(ctx, func(ctx context.Context) error {
			var cerr error
			out, cerr = create(ctx)
			return cerr
		})
		return out, err
	}
	return f
}
