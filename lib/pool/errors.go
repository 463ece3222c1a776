package pool

import (
	"fmt"

	apperrors "github.com/go-i2p/respool/lib/errors"
)

// Sentinel errors returned by pool operations. Compare with errors.Is;
// each also matches the corresponding lib/errors base sentinel.
var (
	// ErrPoolClosed is returned for acquires issued after a drain began.
	ErrPoolClosed = fmt.Errorf("pool: %w", apperrors.ErrClosed)

	// ErrAcquireTimeout is returned when a queued acquire outlives its
	// deadline.
	ErrAcquireTimeout = fmt.Errorf("pool: acquire: %w", apperrors.ErrTimeout)

	// ErrFactoryCreate is returned when the creation a waiter was due to
	// receive failed. The factory's error is attached as a second cause.
	ErrFactoryCreate = fmt.Errorf("pool: factory create failed: %w", apperrors.ErrUnavailable)

	// ErrNotDrained is returned when Clear is called while resources are
	// still borrowed or before Drain began.
	ErrNotDrained = fmt.Errorf("pool: not drained: %w", apperrors.ErrInvalidState)

	// ErrInvalidConfig is returned by New for unusable configurations.
	ErrInvalidConfig = fmt.Errorf("pool: %w", apperrors.ErrConfiguration)
)

// createError attaches the factory cause to ErrFactoryCreate so callers
// can match either with errors.Is.
func createError(cause error) error {
	return fmt.Errorf("%w: %w", ErrFactoryCreate, cause)
}
