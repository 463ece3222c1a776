package resilience

import (
	"github.com/go-i2p/respool/lib/metrics"
)

// Circuit breaker metrics for Prometheus exposition.
var (
	// CircuitBreakerState tracks the current state of the circuit breaker.
	// 0 = closed, 1 = open, 2 = half-open
	CircuitBreakerState = metrics.NewGauge(
		"respool_circuit_breaker_state",
		"Current state of the circuit breaker (0=closed, 1=open, 2=half-open)",
	)

	// CircuitBreakerTrips counts the number of times circuits have opened.
	CircuitBreakerTrips = metrics.NewCounter(
		"respool_circuit_breaker_trips_total",
		"Total number of times circuit breakers have opened",
	)

	// CircuitBreakerSuccesses counts successful operations through circuit breakers.
	CircuitBreakerSuccesses = metrics.NewCounter(
		"respool_circuit_breaker_successes_total",
		"Total successful operations through circuit breakers",
	)

	// CircuitBreakerFailures counts failed operations through circuit breakers.
	CircuitBreakerFailures = metrics.NewCounter(
		"respool_circuit_breaker_failures_total",
		"Total failed operations through circuit breakers",
	)
)
