// Package testutil provides an in-memory resource factory for testing
// code built on the pool package. The harness counts lifecycle calls and
// can script creation gates, creation failures, and validation verdicts,
// so tests can drive the pool through its edge cases without real
// backends.
package testutil

import (
	"context"
	"sync"

	"github.com/go-i2p/respool/lib/pool"
)

// Resource is an in-memory stand-in for an expensive pooled value.
type Resource struct {
	// ID is assigned sequentially per harness, starting at 1.
	ID int

	mu        sync.Mutex
	destroyed bool
}

// Destroyed reports whether the factory destroy ran for this resource.
func (r *Resource) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Harness builds pool factories over scripted in-memory resources.
type Harness struct {
	mu         sync.Mutex
	created    int
	destroyed  int
	gate       chan struct{}
	createErrs []error
	verdicts   []bool
}

// NewHarness returns a harness whose factory creates immediately,
// never fails, and validates every resource.
func NewHarness() *Harness {
	return &Harness{}
}

// Factory returns a pool factory backed by this harness.
func (h *Harness) Factory() pool.Factory[*Resource] {
	return pool.Factory[*Resource]{
		Create:   h.create,
		Destroy:  h.destroy,
		Validate: h.validate,
	}
}

// HoldCreates makes subsequent creations block until AllowCreate or
// ReleaseCreates is called.
func (h *Harness) HoldCreates() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gate == nil {
		h.gate = make(chan struct{})
	}
}

// AllowCreate unblocks exactly n held creations.
func (h *Harness) AllowCreate(n int) {
	h.mu.Lock()
	gate := h.gate
	h.mu.Unlock()
	if gate == nil {
		return
	}
	for i := 0; i < n; i++ {
		gate <- struct{}{}
	}
}

// ReleaseCreates unblocks every held and future creation.
func (h *Harness) ReleaseCreates() {
	h.mu.Lock()
	gate := h.gate
	h.gate = nil
	h.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// FailCreates queues errors returned by the next creations, in order,
// before successful creation resumes.
func (h *Harness) FailCreates(errs ...error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.createErrs = append(h.createErrs, errs...)
}

// ScriptValidation queues verdicts returned by the next validations, in
// order. Once the script runs out, validation reports healthy.
func (h *Harness) ScriptValidation(verdicts ...bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.verdicts = append(h.verdicts, verdicts...)
}

// Created returns how many resources the factory has produced.
func (h *Harness) Created() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

// Destroyed returns how many resources the factory has destroyed.
func (h *Harness) Destroyed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

func (h *Harness) create(ctx context.Context) (*Resource, error) {
	h.mu.Lock()
	gate := h.gate
	h.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.createErrs) > 0 {
		err := h.createErrs[0]
		h.createErrs = h.createErrs[1:]
		return nil, err
	}
	h.created++
	return &Resource{ID: h.created}, nil
}

func (h *Harness) destroy(ctx context.Context, r *Resource) error {
	r.mu.Lock()
	r.destroyed = true
	r.mu.Unlock()

	h.mu.Lock()
	h.destroyed++
	h.mu.Unlock()
	return nil
}

func (h *Harness) validate(ctx context.Context, r *Resource) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.verdicts) > 0 {
		v := h.verdicts[0]
		h.verdicts = h.verdicts[1:]
		return v
	}
	return true
}
