package pool

// Stats is a consistent snapshot of pool state and lifetime counters.
type Stats struct {
	// MaxSize is the configured upper bound on resources.
	MaxSize int
	// MinSize is the configured lower bound.
	MinSize int
	// Size is the current number of live resources.
	Size int
	// NumIdle is the number of resources waiting to be borrowed.
	NumIdle int
	// NumBorrowed is the number of resources currently on loan.
	NumBorrowed int
	// NumPending is the number of queued acquires.
	NumPending int
	// NumCreating is the number of factory creations in flight.
	NumCreating int
	// SpareCapacity is how many more resources the pool could create.
	SpareCapacity int
	// AcquireCount is the total number of acquire attempts.
	AcquireCount uint64
	// AcquireSuccess is the number of acquires that produced a lease.
	AcquireSuccess uint64
	// AcquireFailed is the number of acquires rejected for any reason.
	AcquireFailed uint64
	// ReleaseCount is the number of releases accepted.
	ReleaseCount uint64
	// CreatedTotal is the number of resources ever created.
	CreatedTotal uint64
	// DestroyedTotal is the number of resources retired from the pool.
	DestroyedTotal uint64
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		MaxSize:        p.cfg.MaxSize,
		MinSize:        p.cfg.MinSize,
		Size:           len(p.records),
		NumIdle:        len(p.idle),
		NumBorrowed:    p.borrowed,
		NumPending:     p.waiters.size(),
		NumCreating:    p.creating,
		SpareCapacity:  p.cfg.MaxSize - len(p.records) - p.creating,
		AcquireCount:   p.acquireCount,
		AcquireSuccess: p.acquireSuccess,
		AcquireFailed:  p.acquireFailed,
		ReleaseCount:   p.releaseCount,
		CreatedTotal:   p.createdTotal,
		DestroyedTotal: p.destroyedTotal,
	}
}

// Size returns the current number of live resources.
func (p *Pool[T]) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// NumIdle returns the number of resources waiting to be borrowed.
func (p *Pool[T]) NumIdle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// NumBorrowed returns the number of resources currently on loan.
func (p *Pool[T]) NumBorrowed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.borrowed
}

// NumPending returns the number of queued acquires.
func (p *Pool[T]) NumPending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiters.size()
}

// SpareCapacity returns how many more resources the pool could create
// before hitting MaxSize, counting creations already in flight.
func (p *Pool[T]) SpareCapacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.MaxSize - len(p.records) - p.creating
}

// Min returns the configured lower bound.
func (p *Pool[T]) Min() int {
	return p.cfg.MinSize
}

// Max returns the configured upper bound.
func (p *Pool[T]) Max() int {
	return p.cfg.MaxSize
}
