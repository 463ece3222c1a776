package pool_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-i2p/respool/lib/pool"
	"github.com/go-i2p/respool/lib/testutil"
)

// ExamplePool shows the ordinary borrow-use-return cycle.
func ExamplePool() {
	h := testutil.NewHarness()

	cfg := pool.DefaultConfig()
	cfg.MaxSize = 2

	p, err := pool.New(h.Factory(), cfg)
	if err != nil {
		panic(err)
	}

	lease, err := p.Acquire(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println("borrowed resource", lease.Value().ID)
	lease.Release()

	if err := p.Close(context.Background()); err != nil {
		panic(err)
	}
	fmt.Println("destroyed", h.Destroyed())

	// Output:
	// borrowed resource 1
	// destroyed 1
}

// ExamplePool_AcquireAsync shows a deferred acquire with a deadline.
func ExamplePool_AcquireAsync() {
	h := testutil.NewHarness()

	cfg := pool.DefaultConfig()
	cfg.MaxSize = 1
	cfg.AcquireTimeout = 20 * time.Millisecond

	p, err := pool.New(h.Factory(), cfg)
	if err != nil {
		panic(err)
	}

	holder, err := p.Acquire(context.Background())
	if err != nil {
		panic(err)
	}

	d := p.AcquireAsync(0)
	<-d.Done()
	if _, err := d.Result(); errors.Is(err, pool.ErrAcquireTimeout) {
		fmt.Println("queued acquire timed out")
	}

	holder.Release()

	// Output:
	// queued acquire timed out
}
