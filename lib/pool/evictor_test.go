package pool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEvictorRespectsMin(t *testing.T) {
	var created, destroyed int32
	cfg := DefaultConfig()
	cfg.MinSize = 2
	cfg.MaxSize = 5
	cfg.IdleTimeout = 20 * time.Millisecond
	cfg.EvictionInterval = 10 * time.Millisecond

	p := mustPool(t, countingFactory(&created, &destroyed), cfg)

	var leases []*Lease[*testResource]
	for i := 0; i < 4; i++ {
		lease, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
		leases = append(leases, lease)
	}
	for _, lease := range leases {
		p.Release(lease)
	}

	waitFor(t, 2*time.Second, "pool to shrink to the minimum", func() bool {
		return p.Size() == 2
	})
	if atomic.LoadInt32(&destroyed) != 2 {
		t.Errorf("Expected 2 destroys, got %d", destroyed)
	}

	// The survivors stay put
	time.Sleep(50 * time.Millisecond)
	if p.Size() != 2 {
		t.Errorf("Evictor went below the minimum: size %d", p.Size())
	}
}

func TestEvictorDisabled(t *testing.T) {
	var created, destroyed int32
	cfg := DefaultConfig()
	cfg.MaxSize = 3
	cfg.IdleTimeout = 5 * time.Millisecond
	cfg.EvictionInterval = 0

	p := mustPool(t, countingFactory(&created, &destroyed), cfg)

	lease, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	p.Release(lease)

	time.Sleep(30 * time.Millisecond)
	if p.Size() != 1 || atomic.LoadInt32(&destroyed) != 0 {
		t.Error("Nothing should be evicted with the sweep disabled")
	}
}

func TestSweepHonorsTestBudget(t *testing.T) {
	var created, destroyed int32
	cfg := DefaultConfig()
	cfg.MaxSize = 5
	cfg.IdleTimeout = 5 * time.Millisecond
	cfg.EvictionInterval = 0 // drive sweeps by hand
	cfg.NumTestsPerRun = 1

	p := mustPool(t, countingFactory(&created, &destroyed), cfg)

	var leases []*Lease[*testResource]
	for i := 0; i < 3; i++ {
		lease, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
		leases = append(leases, lease)
	}
	for _, lease := range leases {
		p.Release(lease)
	}

	time.Sleep(10 * time.Millisecond)

	p.sweep()
	if p.Size() != 2 {
		t.Errorf("One sweep with budget 1 should retire one resource, size %d", p.Size())
	}
	p.sweep()
	if p.Size() != 1 {
		t.Errorf("Second sweep should retire another, size %d", p.Size())
	}
}

func TestSweepSkipsFreshResources(t *testing.T) {
	var created, destroyed int32
	cfg := DefaultConfig()
	cfg.MaxSize = 3
	cfg.IdleTimeout = time.Hour
	cfg.EvictionInterval = 0

	p := mustPool(t, countingFactory(&created, &destroyed), cfg)

	lease, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	p.Release(lease)

	p.sweep()
	if p.Size() != 1 {
		t.Errorf("Fresh resource should survive the sweep, size %d", p.Size())
	}
}

func TestSweepStopsAfterDrain(t *testing.T) {
	var created, destroyed int32
	cfg := DefaultConfig()
	cfg.MaxSize = 3
	cfg.IdleTimeout = time.Nanosecond
	cfg.EvictionInterval = 0

	p := mustPool(t, countingFactory(&created, &destroyed), cfg)

	lease, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	p.Release(lease)

	if err := p.Drain(context.Background()); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	// Idle resources now belong to Clear, not the evictor
	p.sweep()
	if p.Size() != 1 {
		t.Errorf("Sweep should not run on a draining pool, size %d", p.Size())
	}
}

func TestOldestIdleOrder(t *testing.T) {
	var created int32

	for _, fifo := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.MaxSize = 3
		cfg.FIFO = fifo

		p := mustPool(t, countingFactory(&created, nil), cfg)

		l1, _ := p.Acquire(context.Background())
		l2, _ := p.Acquire(context.Background())
		l3, _ := p.Acquire(context.Background())
		first := l1.rec
		p.Release(l1)
		time.Sleep(2 * time.Millisecond)
		p.Release(l2)
		time.Sleep(2 * time.Millisecond)
		p.Release(l3)

		p.mu.Lock()
		oldest := p.oldestIdleLocked(1)
		p.mu.Unlock()

		if len(oldest) != 1 || oldest[0] != first {
			t.Errorf("fifo=%v: expected the first-released record to be oldest", fifo)
		}
	}
}
