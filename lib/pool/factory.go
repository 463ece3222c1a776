package pool

import "context"

// CreateFunc produces a fresh resource.
type CreateFunc[T any] func(ctx context.Context) (T, error)

// DestroyFunc releases a resource for good. It must tolerate being called
// with resources that are already gone.
type DestroyFunc[T any] func(ctx context.Context, res T) error

// ValidateFunc reports whether a resource is still usable. It should be
// cheap; the pool runs it on the borrow and return paths when configured.
type ValidateFunc[T any] func(ctx context.Context, res T) bool

// Factory supplies the resource lifecycle callbacks. Create and Destroy
// are required; a nil Validate means every resource is considered valid.
type Factory[T any] struct {
	Create   CreateFunc[T]
	Destroy  DestroyFunc[T]
	Validate ValidateFunc[T]
}

// validate runs the configured health check, defaulting to healthy when
// none is supplied.
func (f Factory[T]) validate(ctx context.Context, res T) bool {
	if f.Validate == nil {
		return true
	}
	return f.Validate(ctx, res)
}

// destroy invokes the user destroy callback. Failures are logged and
// swallowed; the record has already left the pool either way, since
// keeping a doomed resource would break the size bounds.
func (f Factory[T]) destroy(ctx context.Context, res T) {
	if err := f.Destroy(ctx, res); err != nil {
		log.WithError(err).Warn("factory destroy failed")
	}
}
