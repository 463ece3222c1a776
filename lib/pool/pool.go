package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// poolMode is the pool lifecycle phase.
type poolMode int

const (
	modeRunning poolMode = iota
	modeDraining
	modeCleared
)

func (m poolMode) String() string {
	switch m {
	case modeRunning:
		return "running"
	case modeDraining:
		return "draining"
	case modeCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// prewarmRetryWindow bounds how long a pre-warm creation keeps retrying
// transient factory failures before giving up.
const prewarmRetryWindow = 30 * time.Second

// Pool rations access to a bounded population of factory-created
// resources among concurrent consumers. Acquires are served from idle
// resources when possible, from new creations while under MaxSize, and
// otherwise queue in priority order until a resource frees up.
//
// All bookkeeping lives behind one mutex; factory callbacks always run
// outside it.
type Pool[T any] struct {
	factory Factory[T]
	cfg     Config

	mu       sync.Mutex
	mode     poolMode
	records  map[*record[T]]struct{}
	idle     []*record[T]
	waiters  *waiterQueue[T]
	creating int // factory creations in flight
	checking int // borrow-path validations in flight
	borrowed int
	drains   []*Deferred[struct{}]

	acquireCount   uint64
	acquireSuccess uint64
	acquireFailed  uint64
	releaseCount   uint64
	createdTotal   uint64
	destroyedTotal uint64

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool

	// ctx is the pool lifetime; cancelled when the pool is cleared.
	ctx    context.Context
	cancel context.CancelFunc

	stopEvict chan struct{}
	evictDone chan struct{}
}

// New builds a pool over the given factory. The configuration is
// validated up front; unless AutoStart is disabled the pool immediately
// pre-warms MinSize resources and starts the eviction sweep.
func New[T any](factory Factory[T], cfg Config) (*Pool[T], error) {
	if factory.Create == nil || factory.Destroy == nil {
		return nil, fmt.Errorf("%w: factory create and destroy are required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool[T]{
		factory:   factory,
		cfg:       cfg,
		records:   make(map[*record[T]]struct{}),
		waiters:   newWaiterQueue[T](cfg.PriorityRange),
		ctx:       ctx,
		cancel:    cancel,
		stopEvict: make(chan struct{}),
		evictDone: make(chan struct{}),
	}

	if cfg.AutoStart {
		p.Start()
	}

	log.WithField("max", cfg.MaxSize).WithField("min", cfg.MinSize).Debug("pool created")
	return p, nil
}

// Start begins pre-warming and the eviction sweep. It is a no-op after
// the first call; New calls it unless AutoStart is disabled, otherwise
// the first acquire does.
func (p *Pool[T]) Start() {
	p.startOnce.Do(func() {
		if p.cfg.EvictionInterval > 0 {
			go p.evictLoop()
		} else {
			close(p.evictDone)
		}

		p.mu.Lock()
		p.started = true
		p.ensureMinLocked(true)
		p.mu.Unlock()
	})
}

// Acquire obtains a resource at the default priority, waiting until one
// is available, the configured acquire timeout fires, or ctx is done.
func (p *Pool[T]) Acquire(ctx context.Context) (*Lease[T], error) {
	return p.AcquirePriority(ctx, 0)
}

// AcquirePriority is Acquire at an explicit priority class; 0 is the
// most urgent, values outside the configured range are clamped.
func (p *Pool[T]) AcquirePriority(ctx context.Context, priority int) (*Lease[T], error) {
	d, w := p.acquireAsync(priority)

	select {
	case <-d.Done():
		return d.Result()
	case <-ctx.Done():
	}

	// Withdraw the waiter unless dispatch already claimed it.
	p.mu.Lock()
	withdrawn := w != nil && p.waiters.remove(w)
	if withdrawn {
		w.stopTimer()
		p.acquireFailed++
		PoolAcquireFailedTotal.Inc()
		w.d.Reject(ctx.Err())
		p.checkDrainLocked()
	}
	p.mu.Unlock()

	if withdrawn {
		return nil, ctx.Err()
	}

	// Lost the race: the waiter was settled by dispatch, a timeout, or a
	// creation failure. A lease the caller no longer wants goes back.
	lease, err := d.Result()
	if err != nil {
		return nil, err
	}
	p.Release(lease)
	return nil, ctx.Err()
}

// AcquireAsync queues an acquire at the given priority class and returns
// the deferred that will carry the lease. The deferred is rejected with
// ErrPoolClosed after a drain began, ErrAcquireTimeout when the acquire
// deadline fires, or ErrFactoryCreate when the creation earmarked for
// this acquire failed.
func (p *Pool[T]) AcquireAsync(priority int) *Deferred[*Lease[T]] {
	d, _ := p.acquireAsync(priority)
	return d
}

func (p *Pool[T]) acquireAsync(priority int) (*Deferred[*Lease[T]], *waiter[T]) {
	d := NewDeferred[*Lease[T]]()
	p.Start()

	p.mu.Lock()
	p.acquireCount++
	PoolAcquireTotal.Inc()

	if p.mode != modeRunning {
		p.acquireFailed++
		PoolAcquireFailedTotal.Inc()
		p.mu.Unlock()
		d.Reject(ErrPoolClosed)
		return d, nil
	}

	w := &waiter[T]{
		priority:   priority,
		enqueuedAt: time.Now(),
		d:          d,
	}
	p.waiters.enqueue(w)
	p.dispatchLocked()

	// Arm the deadline only if dispatch left the waiter queued.
	if p.cfg.AcquireTimeout > 0 && !d.Settled() {
		w.timer = time.AfterFunc(p.cfg.AcquireTimeout, func() { p.expireWaiter(w) })
	}
	p.mu.Unlock()
	return d, w
}

// Release returns a borrowed resource to the pool. Unknown, stale, or
// already-returned leases are ignored; noisy failures here would only
// cascade a caller bug into the pool.
func (p *Pool[T]) Release(l *Lease[T]) {
	if l == nil || l.pool != p {
		return
	}

	p.mu.Lock()
	rec := l.rec
	if rec.state != stateAllocated || rec.lease != l {
		p.mu.Unlock()
		return
	}

	p.releaseCount++
	PoolReleaseTotal.Inc()
	p.borrowed--
	rec.lease = nil

	if p.cfg.TestOnReturn && p.factory.Validate != nil {
		rec.state = stateValidating
		go p.returnCheck(rec)
		p.mu.Unlock()
		return
	}

	p.pushIdleLocked(rec)
	p.dispatchLocked()
	p.checkDrainLocked()
	p.mu.Unlock()
}

// Discard force-retires a borrowed resource instead of returning it.
// Use it when the borrower has observed the resource is broken. Like
// Release, it ignores leases that are no longer current.
func (p *Pool[T]) Discard(l *Lease[T]) {
	if l == nil || l.pool != p {
		return
	}

	p.mu.Lock()
	rec := l.rec
	if rec.state != stateAllocated || rec.lease != l {
		p.mu.Unlock()
		return
	}

	p.borrowed--
	p.retireLocked(rec)
	p.ensureMinLocked(false)
	p.dispatchLocked()
	p.checkDrainLocked()
	p.mu.Unlock()

	log.WithField("record", rec.id).Debug("borrowed resource discarded")
}

// DrainAsync begins the quiescence phase: no new acquires are admitted,
// queued waiters may still be served from releases or time out, and the
// returned deferred resolves once nothing is borrowed and no waiter
// remains.
func (p *Pool[T]) DrainAsync() *Deferred[struct{}] {
	d := NewDeferred[struct{}]()

	p.mu.Lock()
	if p.mode == modeRunning {
		p.mode = modeDraining
		log.Debug("pool draining")
	}
	p.drains = append(p.drains, d)
	p.checkDrainLocked()
	p.mu.Unlock()

	return d
}

// Drain blocks until the pool has quiesced or ctx is done.
func (p *Pool[T]) Drain(ctx context.Context) error {
	_, err := p.DrainAsync().Wait(ctx)
	return err
}

// Clear destroys every idle resource through the factory, in parallel,
// and ends the pool lifecycle. The pool must have drained first:
// ErrNotDrained is returned while it is still running or resources are
// still borrowed.
func (p *Pool[T]) Clear(ctx context.Context) error {
	p.mu.Lock()
	if p.mode == modeRunning || p.borrowed != 0 {
		p.mu.Unlock()
		return ErrNotDrained
	}

	p.mode = modeCleared
	victims := p.idle
	p.idle = nil
	for _, rec := range victims {
		rec.state = stateInvalid
		delete(p.records, rec)
		p.destroyedTotal++
	}
	p.mu.Unlock()

	p.cancel()
	p.stopOnce.Do(func() { close(p.stopEvict) })

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		// The sweep goroutine exits on stopEvict; wait so no sweep runs
		// against a cleared pool.
		<-p.evictDone
	}

	var wg sync.WaitGroup
	for _, rec := range victims {
		wg.Add(1)
		go func(rec *record[T]) {
			defer wg.Done()
			p.destroyRecord(rec)
		}(rec)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.WithField("destroyed", len(victims)).Debug("pool cleared")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the pool and then clears it. It is the ordinary shutdown
// path for callers that do not need the two phases separately.
func (p *Pool[T]) Close(ctx context.Context) error {
	if err := p.Drain(ctx); err != nil {
		return err
	}
	return p.Clear(ctx)
}

// dispatchLocked matches queued waiters against idle resources and spare
// capacity. It runs after every event that may have enabled a match: an
// acquire, a release, a creation or validation finishing, a retirement.
//
// Supply already in flight (creations and borrow validations) counts
// against demand so that one waiter never provokes two resources.
func (p *Pool[T]) dispatchLocked() {
	for p.mode != modeCleared && p.waiters.size() > p.creating+p.checking {
		if rec := p.popIdleLocked(); rec != nil {
			if p.cfg.TestOnBorrow && p.factory.Validate != nil {
				rec.state = stateValidating
				p.checking++
				go p.borrowCheck(rec)
				continue
			}
			p.allocateLocked(rec, p.waiters.dequeue())
			continue
		}

		// No idle resource; create one while under the bound. New
		// creations stop once draining so the pool can wind down.
		if p.mode == modeRunning && len(p.records)+p.creating < p.cfg.MaxSize {
			p.creating++
			go p.createWorker(false)
			continue
		}
		break
	}
}

// allocateLocked loans rec to w. Both must already be detached from the
// idle set and the waiter queue.
func (p *Pool[T]) allocateLocked(rec *record[T], w *waiter[T]) {
	w.stopTimer()
	rec.state = stateAllocated
	rec.lastUsedAt = time.Now()

	lease := &Lease[T]{pool: p, rec: rec}
	rec.lease = lease
	p.borrowed++
	p.acquireSuccess++
	PoolAcquireSuccessTotal.Inc()
	PoolAcquireLatency.Observe(time.Since(w.enqueuedAt).Seconds())

	if !w.d.Resolve(lease) {
		// Settled concurrently; should not happen since waiters are only
		// settled by whoever removed them from the queue, but a resource
		// must never be stranded on a dead waiter.
		p.borrowed--
		rec.lease = nil
		p.pushIdleLocked(rec)
	}
}

// expireWaiter fails w if it is still queued when its deadline fires.
func (p *Pool[T]) expireWaiter(w *waiter[T]) {
	p.mu.Lock()
	if !p.waiters.remove(w) {
		// Already dispatched or withdrawn.
		p.mu.Unlock()
		return
	}
	p.acquireFailed++
	PoolAcquireFailedTotal.Inc()
	PoolAcquireTimeoutTotal.Inc()
	w.d.Reject(ErrAcquireTimeout)
	p.checkDrainLocked()
	p.mu.Unlock()

	log.WithField("waited", time.Since(w.enqueuedAt)).Debug("acquire timed out")
}

// createWorker runs one factory creation outside the lock and feeds the
// result back into dispatch. Pre-warm creations retry transient failures
// with exponential backoff; demand-driven ones fail fast so the waiter
// due this resource learns promptly.
func (p *Pool[T]) createWorker(retry bool) {
	var value T
	var err error

	if retry {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 100 * time.Millisecond
		bo.MaxElapsedTime = prewarmRetryWindow
		err = backoff.Retry(func() error {
			var cerr error
			value, cerr = p.factory.Create(p.ctx)
			if cerr != nil {
				log.WithError(cerr).Debug("pre-warm create attempt failed")
			}
			return cerr
		}, backoff.WithContext(bo, p.ctx))
	} else {
		value, err = p.factory.Create(p.ctx)
	}

	p.finishCreate(value, err)
}

// finishCreate folds a completed factory creation back into the pool
// state and re-runs dispatch.
func (p *Pool[T]) finishCreate(value T, err error) {
	p.mu.Lock()
	p.creating--

	if err != nil {
		PoolCreateFailedTotal.Inc()
		log.WithError(err).Warn("factory create failed")

		// The head waiter was due this resource; it inherits the failure.
		if w := p.waiters.dequeue(); w != nil {
			w.stopTimer()
			p.acquireFailed++
			PoolAcquireFailedTotal.Inc()
			w.d.Reject(createError(err))
		}
		p.dispatchLocked()
		p.checkDrainLocked()
		p.mu.Unlock()
		return
	}

	rec := newRecord(value)
	p.createdTotal++
	PoolCreatedTotal.Inc()

	if p.mode == modeCleared {
		// Cleared while the creation was in flight; the resource never
		// joins the pool.
		p.destroyedTotal++
		p.mu.Unlock()
		p.destroyRecord(rec)
		return
	}

	p.records[rec] = struct{}{}
	log.WithField("record", rec.id).Debug("resource created")

	// The new resource goes to the current head of the queue, which may
	// not be the waiter whose acquire triggered the creation.
	if w := p.waiters.dequeue(); w != nil {
		p.allocateLocked(rec, w)
	} else {
		p.pushIdleLocked(rec)
	}
	p.dispatchLocked()
	p.checkDrainLocked()
	p.mu.Unlock()
}

// borrowCheck validates rec on the borrow path and feeds the verdict
// back into dispatch. Runs outside the lock; rec is parked in the
// validating state meanwhile.
func (p *Pool[T]) borrowCheck(rec *record[T]) {
	ok := p.factory.validate(p.ctx, rec.value)

	p.mu.Lock()
	p.checking--

	switch {
	case !ok:
		PoolValidationFailedTotal.Inc()
		log.WithField("record", rec.id).Debug("resource failed borrow validation")
		p.retireLocked(rec)
		p.ensureMinLocked(false)
	case p.mode == modeCleared:
		p.destroyedTotal++
		delete(p.records, rec)
		go p.destroyRecord(rec)
	default:
		if w := p.waiters.dequeue(); w != nil {
			p.allocateLocked(rec, w)
		} else {
			p.pushIdleLocked(rec)
		}
	}
	p.dispatchLocked()
	p.checkDrainLocked()
	p.mu.Unlock()
}

// returnCheck validates rec on the return path before it rejoins the
// idle set.
func (p *Pool[T]) returnCheck(rec *record[T]) {
	ok := p.factory.validate(p.ctx, rec.value)

	p.mu.Lock()
	switch {
	case !ok:
		PoolValidationFailedTotal.Inc()
		log.WithField("record", rec.id).Debug("resource failed return validation")
		p.retireLocked(rec)
		p.ensureMinLocked(false)
	case p.mode == modeCleared:
		p.destroyedTotal++
		delete(p.records, rec)
		go p.destroyRecord(rec)
	default:
		p.pushIdleLocked(rec)
	}
	p.dispatchLocked()
	p.checkDrainLocked()
	p.mu.Unlock()
}

// retireLocked marks rec invalid, removes it from the pool, and schedules
// the factory destroy. The record must not be in the idle set.
func (p *Pool[T]) retireLocked(rec *record[T]) {
	rec.state = stateInvalid
	rec.lease = nil
	delete(p.records, rec)
	p.destroyedTotal++
	go p.destroyRecord(rec)
}

// destroyRecord runs the factory destroy outside the lock and records
// the terminal state. Uses a fresh context: destruction must proceed
// even after the pool lifetime context is cancelled by Clear.
func (p *Pool[T]) destroyRecord(rec *record[T]) {
	p.factory.destroy(context.Background(), rec.value)
	PoolDestroyedTotal.Inc()

	p.mu.Lock()
	rec.state = stateDestroyed
	p.mu.Unlock()
}

// ensureMinLocked tops the live population back up to MinSize. Only the
// initial pre-warm retries failures with backoff.
func (p *Pool[T]) ensureMinLocked(retry bool) {
	if p.mode != modeRunning {
		return
	}
	for len(p.records)+p.creating < p.cfg.MinSize && len(p.records)+p.creating < p.cfg.MaxSize {
		p.creating++
		go p.createWorker(retry)
	}
}

// checkDrainLocked resolves pending drains once the pool has quiesced:
// draining (or cleared), nothing borrowed, no waiter queued.
func (p *Pool[T]) checkDrainLocked() {
	if p.mode == modeRunning || p.borrowed != 0 || p.waiters.size() != 0 {
		return
	}
	for _, d := range p.drains {
		d.Resolve(struct{}{})
	}
	p.drains = nil
}

// pushIdleLocked returns rec to the idle set according to the configured
// return policy.
func (p *Pool[T]) pushIdleLocked(rec *record[T]) {
	rec.state = stateIdle
	rec.lastUsedAt = time.Now()
	if p.cfg.FIFO {
		p.idle = append(p.idle, rec)
	} else {
		p.idle = append([]*record[T]{rec}, p.idle...)
	}
}

// popIdleLocked takes the next idle resource to hand out, or nil.
func (p *Pool[T]) popIdleLocked() *record[T] {
	if len(p.idle) == 0 {
		return nil
	}
	rec := p.idle[0]
	p.idle = p.idle[1:]
	return rec
}

// removeIdleLocked deletes rec from the idle set by identity.
func (p *Pool[T]) removeIdleLocked(rec *record[T]) bool {
	for i, cand := range p.idle {
		if cand == rec {
			p.idle = append(p.idle[:i:i], p.idle[i+1:]...)
			return true
		}
	}
	return false
}
