// Package pool provides a generic asynchronous resource pool: a
// coordinator that rations access to a bounded population of expensive,
// reusable resources (network connections, prepared sessions, worker
// handles) among many concurrent consumers.
//
// The pool supports:
//   - Configurable maximum and minimum pool size with pre-warming
//   - Priority classes with strict priority across classes and FIFO order within one
//   - Per-acquire deadlines
//   - Validation on the borrow and return paths
//   - A background eviction sweep for long-idle resources
//   - Two-phase shutdown: drain (quiesce) then clear (destroy)
//   - Metrics for pool utilization
//
// # Basic Usage
//
//	factory := pool.Factory[net.Conn]{
//	    Create: func(ctx context.Context) (net.Conn, error) {
//	        return net.Dial("tcp", "localhost:8080")
//	    },
//	    Destroy: func(ctx context.Context, conn net.Conn) error {
//	        return conn.Close()
//	    },
//	}
//
//	cfg := pool.DefaultConfig()
//	cfg.MaxSize = 10
//	cfg.MinSize = 2
//
//	p, err := pool.New(factory, cfg)
//	if err != nil {
//	    return err
//	}
//
//	lease, err := p.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer lease.Release()
//
//	// Use lease.Value()...
//
// # Asynchronous Acquires
//
// Acquire and AcquirePriority block the calling goroutine; AcquireAsync
// returns a Deferred immediately, for callers that multiplex many
// pending acquires themselves:
//
//	d := p.AcquireAsync(0)
//	select {
//	case <-d.Done():
//	    lease, err := d.Result()
//	    ...
//	case <-other:
//	    ...
//	}
//
// # Shutdown
//
// Shutdown is a two-phase protocol. Drain stops admitting acquires and
// waits for loans and waiters to settle; Clear then destroys the idle
// resources. Close runs both.
//
//	if err := p.Drain(ctx); err != nil {
//	    return err
//	}
//	if err := p.Clear(ctx); err != nil {
//	    return err
//	}
//
// # Metrics
//
// Pool metrics are registered with the metrics package:
//   - respool_resources_max: Maximum pool size
//   - respool_resources_open: Current live resources
//   - respool_resources_idle: Current idle resources
//   - respool_resources_borrowed: Resources currently borrowed
//   - respool_waiters_pending: Queued acquires
//   - respool_acquire_total: Total acquire attempts
//   - respool_acquire_success_total: Successful acquires
//   - respool_acquire_failed_total: Failed acquires
//   - respool_acquire_timeout_total: Acquires that hit their deadline
//   - respool_release_total: Total releases
//   - respool_created_total: Resources created
//   - respool_create_failed_total: Factory creations that failed
//   - respool_destroyed_total: Resources destroyed
//   - respool_validation_failed_total: Failed validations
//   - respool_evicted_total: Idle resources evicted
//   - respool_acquire_duration_seconds: Acquire latency histogram
package pool
