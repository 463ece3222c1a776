package pool

import "github.com/go-i2p/respool/lib/metrics"

// Pool utilization metrics
var (
	// PoolResourcesMax is the configured maximum pool size.
	PoolResourcesMax = metrics.NewGauge(
		"respool_resources_max",
		"Maximum number of resources in the pool",
	)
	// PoolResourcesOpen is the current number of live resources.
	PoolResourcesOpen = metrics.NewGauge(
		"respool_resources_open",
		"Current number of live resources",
	)
	// PoolResourcesIdle is the current number of idle resources.
	PoolResourcesIdle = metrics.NewGauge(
		"respool_resources_idle",
		"Current number of idle resources in the pool",
	)
	// PoolResourcesBorrowed is the number of resources on loan.
	PoolResourcesBorrowed = metrics.NewGauge(
		"respool_resources_borrowed",
		"Number of resources currently borrowed",
	)
	// PoolWaitersPending is the number of queued acquires.
	PoolWaitersPending = metrics.NewGauge(
		"respool_waiters_pending",
		"Number of acquires waiting for a resource",
	)
	// PoolAcquireTotal is the total number of acquire attempts.
	PoolAcquireTotal = metrics.NewCounter(
		"respool_acquire_total",
		"Total number of resource acquire attempts",
	)
	// PoolAcquireSuccessTotal is the number of successful acquires.
	PoolAcquireSuccessTotal = metrics.NewCounter(
		"respool_acquire_success_total",
		"Total number of successful resource acquires",
	)
	// PoolAcquireFailedTotal is the number of failed acquires.
	PoolAcquireFailedTotal = metrics.NewCounter(
		"respool_acquire_failed_total",
		"Total number of failed resource acquires",
	)
	// PoolAcquireTimeoutTotal is the number of acquires that timed out.
	PoolAcquireTimeoutTotal = metrics.NewCounter(
		"respool_acquire_timeout_total",
		"Total number of acquires that outlived their deadline",
	)
	// PoolReleaseTotal is the number of releases.
	PoolReleaseTotal = metrics.NewCounter(
		"respool_release_total",
		"Total number of resource releases",
	)
	// PoolCreatedTotal is the number of resources created.
	PoolCreatedTotal = metrics.NewCounter(
		"respool_created_total",
		"Total number of resources created by the factory",
	)
	// PoolCreateFailedTotal is the number of failed factory creations.
	PoolCreateFailedTotal = metrics.NewCounter(
		"respool_create_failed_total",
		"Total number of factory creations that failed",
	)
	// PoolDestroyedTotal is the number of resources destroyed.
	PoolDestroyedTotal = metrics.NewCounter(
		"respool_destroyed_total",
		"Total number of resources destroyed by the factory",
	)
	// PoolValidationFailedTotal is the number of validation failures.
	PoolValidationFailedTotal = metrics.NewCounter(
		"respool_validation_failed_total",
		"Total number of resources that failed validation",
	)
	// PoolEvictedTotal is the number of idle resources evicted.
	PoolEvictedTotal = metrics.NewCounter(
		"respool_evicted_total",
		"Total number of idle resources retired by the evictor",
	)
	// PoolAcquireLatency tracks time spent waiting for a resource.
	PoolAcquireLatency = metrics.NewHistogram(
		"respool_acquire_duration_seconds",
		"Time spent acquiring a resource from the pool",
		metrics.DefaultLatencyBuckets,
	)
)

// UpdateMetrics updates the pool gauges from Stats.
func UpdateMetrics(stats Stats) {
	PoolResourcesMax.Set(int64(stats.MaxSize))
	PoolResourcesOpen.Set(int64(stats.Size))
	PoolResourcesIdle.Set(int64(stats.NumIdle))
	PoolResourcesBorrowed.Set(int64(stats.NumBorrowed))
	PoolWaitersPending.Set(int64(stats.NumPending))
}
