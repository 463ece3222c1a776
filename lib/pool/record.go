package pool

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// recordState tracks the lifecycle of one pooled resource.
type recordState int

const (
	stateCreating recordState = iota
	stateIdle
	stateAllocated
	stateValidating
	stateInvalid
	stateDestroyed
)

func (s recordState) String() string {
	switch s {
	case stateCreating:
		return "creating"
	case stateIdle:
		return "idle"
	case stateAllocated:
		return "allocated"
	case stateValidating:
		return "validating"
	case stateInvalid:
		return "invalid"
	case stateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// record is the pool's bookkeeping wrapper around one resource. The pool
// owns the record for its whole life; borrowers only ever see the value
// through a Lease.
type record[T any] struct {
	id         string
	value      T
	state      recordState
	createdAt  time.Time
	lastUsedAt time.Time
	lease      *Lease[T]
}

func newRecord[T any](value T) *record[T] {
	now := time.Now()
	return &record[T]{
		id:         ulid.Make().String(),
		value:      value,
		state:      stateIdle,
		createdAt:  now,
		lastUsedAt: now,
	}
}

// Lease is the handle a borrower holds between a successful acquire and
// the matching Release or Discard. Releasing or discarding a lease that
// is no longer current is a no-op.
type Lease[T any] struct {
	pool *Pool[T]
	rec  *record[T]
}

// Value returns the borrowed resource.
func (l *Lease[T]) Value() T {
	return l.rec.value
}

// Release returns the resource to the pool.
func (l *Lease[T]) Release() {
	l.pool.Release(l)
}

// Discard force-retires the resource instead of returning it. Use it
// when the borrower has observed the resource is broken.
func (l *Lease[T]) Discard() {
	l.pool.Discard(l)
}
