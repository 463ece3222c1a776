// Package resilience provides resilience patterns for resource factories.
// This file implements the circuit breaker pattern for factory operations.
//
// The circuit breaker prevents cascading failures by detecting when the
// backend a factory creates resources against is unhealthy and temporarily
// stopping creation attempts to allow recovery.
//
// State transitions:
//
//	Closed (normal) -> Open (failing) -> HalfOpen (testing) -> Closed
//	                     ^                    |
//	                     +--------------------+ (if test fails)
package resilience

import (
	"context"
	"sync"
	"time"
)

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	// CircuitClosed is the normal operating state - requests pass through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit is tripped - requests fail immediately.
	CircuitOpen
	// CircuitHalfOpen means the circuit is testing if the backend recovered.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of successes in half-open state
	// before closing the circuit.
	SuccessThreshold int
	// Timeout is the duration to wait before transitioning from open to half-open.
	Timeout time.Duration
	// MaxHalfOpenRequests is the maximum number of requests allowed in half-open state.
	MaxHalfOpenRequests int
}

// DefaultCircuitBreakerConfig returns sensible defaults for factory
// creation paths.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		MaxHalfOpenRequests: 3,
	}
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	mu     sync.RWMutex
	config CircuitBreakerConfig
	name   string

	state CircuitState

	failureCount         int
	successCount         int
	halfOpenRequestCount int

	lastFailureTime time.Time
	lastStateChange time.Time
	openedAt        time.Time

	onStateChange func(from, to CircuitState)
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxHalfOpenRequests <= 0 {
		cfg.MaxHalfOpenRequests = def.MaxHalfOpenRequests
	}

	return &CircuitBreaker{
		config:          cfg,
		name:            name,
		state:           CircuitClosed,
		lastStateChange: time.Now(),
	}
}

// SetStateChangeCallback sets the callback for state changes.
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(from, to CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.stateWithTimeCheck()
}

// stateWithTimeCheck returns the current state, reporting open circuits
// whose timeout has elapsed as half-open. The actual transition happens
// in Allow, which holds the write lock.
func (cb *CircuitBreaker) stateWithTimeCheck() CircuitState {
	if cb.state == CircuitOpen && time.Since(cb.openedAt) >= cb.config.Timeout {
		return CircuitHalfOpen
	}
	return cb.state
}

// Allow checks if a request should be allowed.
// Returns true if the request can proceed, false if it should be rejected.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.openedAt) >= cb.config.Timeout {
			cb.transitionTo(CircuitHalfOpen)
			cb.halfOpenRequestCount = 1
			return true
		}
		return false
	case CircuitHalfOpen:
		if cb.halfOpenRequestCount < cb.config.MaxHalfOpenRequests {
			cb.halfOpenRequestCount++
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess records a successful operation.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	CircuitBreakerSuccesses.Inc()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.transitionTo(CircuitClosed)
		}
	case CircuitOpen:
		log.WithField("circuit", cb.name).Warn("success recorded while circuit open")
	}
}

// RecordFailure records a failed operation.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	CircuitBreakerFailures.Inc()
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.transitionTo(CircuitOpen)
		}
	case CircuitHalfOpen:
		// Failed while testing - go back to open
		cb.transitionTo(CircuitOpen)
	case CircuitOpen:
	}
}

// transitionTo changes the circuit state. Must be called with the lock held.
func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState
	cb.lastStateChange = time.Now()

	switch newState {
	case CircuitClosed:
		cb.failureCount = 0
		cb.successCount = 0
	case CircuitOpen:
		cb.openedAt = time.Now()
		cb.successCount = 0
		CircuitBreakerTrips.Inc()
	case CircuitHalfOpen:
		cb.successCount = 0
		cb.halfOpenRequestCount = 0
	}
	CircuitBreakerState.Set(int64(newState))

	log.WithField("circuit", cb.name).
		WithField("from", oldState.String()).
		WithField("to", newState.String()).
		Info("circuit breaker state transition")

	if cb.onStateChange != nil {
		// Call callback without lock to avoid deadlocks
		go cb.onStateChange(oldState, newState)
	}
}

// Execute runs the given function if the circuit allows it.
// Returns ErrCircuitOpen if the circuit is open and the request is rejected.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}

	err := fn()
	if err != nil {
		cb.RecordFailure()
		return err
	}

	cb.RecordSuccess()
	return nil
}

// ExecuteWithContext runs the given function with context awareness.
// Context cancellation is returned as-is and not counted as a failure.
func (cb *CircuitBreaker) ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	err := fn(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cb.RecordFailure()
		return err
	}

	cb.RecordSuccess()
	return nil
}

// Reset resets the circuit breaker to its initial closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenRequestCount = 0
	cb.lastStateChange = time.Now()
	cb.openedAt = time.Time{}
}

// IsOpen returns true if the circuit is currently open (rejecting requests).
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == CircuitOpen
}

// IsClosed returns true if the circuit is currently closed (allowing requests).
func (cb *CircuitBreaker) IsClosed() bool {
	return cb.State() == CircuitClosed
}

// IsHalfOpen returns true if the circuit is currently half-open (testing).
func (cb *CircuitBreaker) IsHalfOpen() bool {
	return cb.State() == CircuitHalfOpen
}

// Name returns the name of this circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
